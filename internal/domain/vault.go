package domain

import (
	"slices"
	"strings"
)

// SyncConflictMarker is the substring Syncthing inserts into the name of a conflicting copy
const SyncConflictMarker = ".sync-conflict"

// FolderRef represents a folder in the vault
type FolderRef struct {
	Path string // Vault-relative path, "/" for the vault root
	Name string
}

// IsRoot reports whether the folder is the vault root.
// A nil folder is treated as the root.
func (f *FolderRef) IsRoot() bool {
	return f == nil || IsRootPath(f.Path)
}

// FileRef is a snapshot of a stored document taken at scan time
type FileRef struct {
	Path   string     // Vault-relative path, unique within the vault
	Name   string     // Base name including extension
	Parent *FolderRef // Containing folder
}

// InRoot reports whether the file sits directly in the vault root
func (f FileRef) InRoot() bool {
	return f.Parent.IsRoot()
}

// IsSyncConflict reports whether name carries the conflict marker.
// Matching is case-sensitive and not anchored to the extension.
func IsSyncConflict(name, marker string) bool {
	if marker == "" {
		return false
	}
	return strings.Contains(name, marker)
}

// ResolvedLinks maps source path -> target path -> number of links
type ResolvedLinks map[string]map[string]int

// SourcesLinkingTo returns the sources that link to target, sorted by path
func (l ResolvedLinks) SourcesLinkingTo(target string) []string {
	var sources []string
	for source, targets := range l {
		if targets[target] > 0 {
			sources = append(sources, source)
		}
	}
	slices.Sort(sources)
	return sources
}

// Outcome is the result of one maintenance run
type Outcome struct {
	Count       int      // Files trashed or moved (or that would be, for dry runs)
	Files       []string // Affected paths, sorted
	DryRun      bool
	Target      string // Resolved target note path (relocations only)
	Destination string // Destination folder (relocations only)
	Message     string // Human-readable notice
}

// TrashMode selects how a store disposes of trashed files
type TrashMode string

const (
	TrashLocal  TrashMode = "local"  // Move into the vault's .trash folder
	TrashDelete TrashMode = "delete" // Remove permanently
)

// Valid reports whether the mode is known
func (m TrashMode) Valid() bool {
	return m == TrashLocal || m == TrashDelete
}
