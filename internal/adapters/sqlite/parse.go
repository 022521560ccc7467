package sqlite

import (
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// rawLink is one outgoing link as written in a note
type rawLink struct {
	text     string // Original link text, e.g. [[expenses|Gastos]] or ./expenses.md
	linkpath string // Target without subpath or alias
}

var markdown = goldmark.New()

// parseLinks extracts wikilinks, embeds and markdown links from a note.
// Links inside code are ignored, as are external URLs. Self-links are kept.
func parseLinks(src []byte) []rawLink {
	links := parseWikiLinks(string(src))
	return append(links, parseMarkdownLinks(src)...)
}

// parseWikiLinks scans [[target#sub|alias]] and ![[embed]] line by line,
// skipping fenced blocks and inline code.
func parseWikiLinks(content string) []rawLink {
	var out []rawLink
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		trim := strings.TrimSpace(line)
		if strings.HasPrefix(trim, "```") || strings.HasPrefix(trim, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		remaining := stripInlineCode(line)
		for {
			start := strings.Index(remaining, "[[")
			if start == -1 {
				break
			}
			end := strings.Index(remaining[start+2:], "]]")
			if end == -1 {
				break
			}
			end = start + 2 + end
			inner := remaining[start+2 : end]
			remaining = remaining[end+2:]

			target := splitSubpath(splitAlias(inner))
			if target == "" {
				continue
			}
			out = append(out, rawLink{text: "[[" + inner + "]]", linkpath: target})
		}
	}
	return out
}

// parseMarkdownLinks walks the goldmark AST for inline links and images.
// The walker never fails, so Walk's error is always nil.
func parseMarkdownLinks(src []byte) []rawLink {
	doc := markdown.Parser().Parse(text.NewReader(src))

	var out []rawLink
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var dest []byte
		switch node := n.(type) {
		case *ast.Link:
			dest = node.Destination
		case *ast.Image:
			dest = node.Destination
		default:
			return ast.WalkContinue, nil
		}

		raw := strings.TrimSpace(string(dest))
		if raw == "" || isURL(raw) {
			return ast.WalkContinue, nil
		}
		target := raw
		if decoded, err := url.PathUnescape(raw); err == nil {
			target = decoded
		}
		target = splitSubpath(target)
		if target == "" {
			return ast.WalkContinue, nil
		}
		out = append(out, rawLink{text: raw, linkpath: target})
		return ast.WalkContinue, nil
	})
	return out
}

func stripInlineCode(line string) string {
	var out strings.Builder
	inCode := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if ch == '`' {
			inCode = !inCode
			continue
		}
		if !inCode {
			out.WriteByte(ch)
		}
	}
	return out.String()
}

// splitAlias drops the |alias part of a wikilink
func splitAlias(inner string) string {
	if i := strings.Index(inner, "|"); i >= 0 {
		inner = inner[:i]
	}
	return strings.TrimSpace(inner)
}

// splitSubpath drops the #heading or #^block part of a link
func splitSubpath(target string) string {
	if i := strings.Index(target, "#"); i >= 0 {
		target = target[:i]
	}
	return strings.TrimSpace(target)
}

// isURL reports whether a destination points outside the vault
func isURL(dest string) bool {
	if strings.Contains(dest, "://") {
		return true
	}
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	// Single-letter schemes are Windows drive letters, not URLs
	return len(u.Scheme) > 1
}
