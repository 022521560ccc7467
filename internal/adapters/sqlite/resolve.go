package sqlite

import (
	"path"
	"slices"
	"strings"

	"orbnaments/internal/domain"
)

// resolver maps link paths to vault files the way Obsidian's
// first-linkpath-destination lookup does
type resolver struct {
	paths  map[string]bool
	byName map[string][]string // lowercased base name -> paths
}

func newResolver(paths []string) *resolver {
	r := &resolver{
		paths:  make(map[string]bool, len(paths)),
		byName: make(map[string][]string),
	}
	for _, p := range paths {
		r.add(p)
	}
	return r
}

func (r *resolver) add(p string) {
	if r.paths[p] {
		return
	}
	r.paths[p] = true
	name := strings.ToLower(path.Base(p))
	r.byName[name] = append(r.byName[name], p)
}

// resolve returns the vault path linkpath points to from sourcePath, or "".
// Order: exact vault path, path relative to the source folder, then
// a case-insensitive name or suffix match preferring the source folder,
// then the shortest path, then lexical order.
func (r *resolver) resolve(linkpath, sourcePath string) string {
	lp := strings.TrimSpace(strings.ReplaceAll(linkpath, "\\", "/"))
	if lp == "" {
		return ""
	}

	if !domain.EscapesVault(strings.TrimPrefix(lp, "/")) {
		for _, cand := range withMarkdownExt(domain.NormalizePath(lp)) {
			if r.paths[cand] {
				return cand
			}
		}
	}

	sourceDir := domain.ParentPath(sourcePath)
	if rel := path.Join(sourceDir, lp); sourceDir != "" && !domain.EscapesVault(rel) {
		for _, cand := range withMarkdownExt(domain.NormalizePath(rel)) {
			if r.paths[cand] {
				return cand
			}
		}
	}

	suffixes := withMarkdownExt(strings.ToLower(strings.Trim(path.Clean(lp), "/")))
	var matches []string
	for _, suffix := range suffixes {
		for _, p := range r.byName[path.Base(suffix)] {
			lower := strings.ToLower(p)
			if lower == suffix || strings.HasSuffix(lower, "/"+suffix) {
				matches = append(matches, p)
			}
		}
		if len(matches) > 0 {
			break
		}
	}
	return closest(matches, sourceDir)
}

// closest picks the best candidate for a link written in sourceDir
func closest(candidates []string, sourceDir string) string {
	if len(candidates) == 0 {
		return ""
	}
	slices.SortFunc(candidates, func(a, b string) int {
		aLocal := domain.ParentPath(a) == sourceDir
		bLocal := domain.ParentPath(b) == sourceDir
		switch {
		case aLocal && !bLocal:
			return -1
		case bLocal && !aLocal:
			return 1
		case len(a) != len(b):
			return len(a) - len(b)
		default:
			return strings.Compare(a, b)
		}
	})
	return candidates[0]
}

// withMarkdownExt returns p and, unless it already ends in .md, p + ".md"
func withMarkdownExt(p string) []string {
	if strings.EqualFold(path.Ext(p), ".md") {
		return []string{p}
	}
	return []string{p, p + ".md"}
}
