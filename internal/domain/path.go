package domain

import (
	"path"
	"path/filepath"
	"strings"
)

// NormalizePath cleans a vault-relative path: forward slashes, no leading "./" or "/".
// The vault root normalizes to "". Only the OS separator is converted, so a
// backslash stays part of the name on POSIX.
func NormalizePath(p string) string {
	p = filepath.ToSlash(p)
	clean := path.Clean("/" + p)
	return strings.TrimPrefix(clean, "/")
}

// IsRootPath reports whether p names the vault root
func IsRootPath(p string) bool {
	return p == "" || p == "/"
}

// EscapesVault reports whether a raw relative path climbs above the vault root
func EscapesVault(p string) bool {
	p = filepath.ToSlash(p)
	clean := path.Clean(p)
	return clean == ".." || strings.HasPrefix(clean, "../")
}

// ParentPath returns the folder part of a vault-relative path, "" for root-level files
func ParentPath(p string) string {
	dir := path.Dir(NormalizePath(p))
	if dir == "." {
		return ""
	}
	return dir
}

// JoinPath joins a folder and a file name into a vault-relative path
func JoinPath(folder, name string) string {
	if IsRootPath(folder) {
		return NormalizePath(name)
	}
	return NormalizePath(folder + "/" + name)
}
