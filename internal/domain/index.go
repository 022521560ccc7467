package domain

import "time"

// IndexNode represents a cached vault file
type IndexNode struct {
	Path   string // Relative path from vault root (primary key)
	Name   string // Base name including extension
	Folder string // Parent folder, "" for the root
	Mtime  int64  // Modification time in Unix nanoseconds, for incremental sync
}

// Edge represents a link found in a markdown file
type Edge struct {
	SourcePath string // File containing the link
	LinkText   string // Original link text, e.g. [[expenses|Gastos]]
	Linkpath   string // Link target as written, without subpath or alias
	TargetPath string // Resolved target path, empty when unresolved
}

// SyncStats holds statistics from a sync operation
type SyncStats struct {
	NodesAdded   int
	NodesUpdated int
	NodesDeleted int
	EdgesAdded   int
	EdgesDeleted int
	FilesScanned int
	Duration     time.Duration
}
