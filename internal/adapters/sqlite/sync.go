package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"orbnaments/internal/domain"
)

// vaultEntry is a regular file found while walking the vault
type vaultEntry struct {
	node     domain.IndexNode
	markdown bool
}

// SyncFull performs a complete rebuild of the index
func (idx *Index) SyncFull() (*domain.SyncStats, error) {
	start := time.Now()

	entries, err := idx.walk()
	if err != nil {
		return nil, err
	}
	stats := &domain.SyncStats{FilesScanned: len(entries)}
	links := newResolver(entryPaths(entries))

	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Clear existing data
	if _, err := tx.Exec(`DELETE FROM edges`); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(`DELETE FROM nodes`); err != nil {
		return nil, err
	}

	t := &indexTx{tx: tx}
	for i := range entries {
		e := &entries[i]
		if err := t.UpsertNode(&e.node); err != nil {
			return nil, fmt.Errorf("failed to index %s: %w", e.node.Path, err)
		}
		stats.NodesAdded++

		if !e.markdown {
			continue
		}
		added, err := idx.indexLinks(t, links, e.node.Path)
		if err != nil {
			return nil, err
		}
		stats.EdgesAdded += added
	}

	if err := idx.finishSync(tx); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// SyncIncremental updates only files that changed since last sync,
// then re-resolves links whose target is missing.
func (idx *Index) SyncIncremental() (*domain.SyncStats, error) {
	start := time.Now()

	// Track existing paths to detect deletions
	existing, err := idx.nodeMtimes()
	if err != nil {
		return nil, err
	}

	entries, err := idx.walk()
	if err != nil {
		return nil, err
	}
	stats := &domain.SyncStats{FilesScanned: len(entries)}
	links := newResolver(entryPaths(entries))

	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	t := &indexTx{tx: tx}

	seen := make(map[string]bool, len(entries))
	for i := range entries {
		e := &entries[i]
		seen[e.node.Path] = true

		mtime, known := existing[e.node.Path]
		if known && mtime == e.node.Mtime {
			continue
		}

		if err := t.UpsertNode(&e.node); err != nil {
			return nil, fmt.Errorf("failed to index %s: %w", e.node.Path, err)
		}
		if known {
			stats.NodesUpdated++
		} else {
			stats.NodesAdded++
		}

		if !e.markdown {
			continue
		}
		deleted, err := deleteEdgesFrom(tx, e.node.Path)
		if err != nil {
			return nil, err
		}
		stats.EdgesDeleted += deleted

		added, err := idx.indexLinks(t, links, e.node.Path)
		if err != nil {
			return nil, err
		}
		stats.EdgesAdded += added
	}

	// Delete nodes that no longer exist
	for p := range existing {
		if seen[p] {
			continue
		}
		if err := t.DeleteNode(p); err != nil {
			return nil, err
		}
		stats.NodesDeleted++
	}

	if err := reresolveDangling(tx, links); err != nil {
		return nil, err
	}

	if err := idx.finishSync(tx); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// walk lists every regular file below the vault root, skipping hidden entries
func (idx *Index) walk() ([]vaultEntry, error) {
	var entries []vaultEntry

	err := filepath.WalkDir(idx.vaultPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == idx.vaultPath {
				return err
			}
			return nil // Skip unreadable entries
		}
		if p == idx.vaultPath {
			return nil
		}

		// Skip hidden directories and files
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(idx.vaultPath, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		entries = append(entries, vaultEntry{
			node: domain.IndexNode{
				Path:   rel,
				Name:   d.Name(),
				Folder: domain.ParentPath(rel),
				Mtime:  info.ModTime().UnixNano(),
			},
			markdown: isMarkdown(d.Name()),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk vault: %w", err)
	}

	return entries, nil
}

// indexLinks parses a note and stores one edge per link occurrence
func (idx *Index) indexLinks(t *indexTx, links *resolver, relPath string) (int, error) {
	content, err := os.ReadFile(filepath.Join(idx.vaultPath, filepath.FromSlash(relPath)))
	if err != nil {
		return 0, nil // Vanished since the walk; the next sync drops it
	}

	added := 0
	for _, l := range parseLinks(content) {
		edge := &domain.Edge{
			SourcePath: relPath,
			LinkText:   l.text,
			Linkpath:   l.linkpath,
			TargetPath: links.resolve(l.linkpath, relPath),
		}
		if err := t.InsertEdge(edge); err != nil {
			return added, fmt.Errorf("failed to index links of %s: %w", relPath, err)
		}
		added++
	}
	return added, nil
}

// nodeMtimes returns the stored mtime of every node
func (idx *Index) nodeMtimes() (map[string]int64, error) {
	rows, err := idx.db.Query(`SELECT path, mtime FROM nodes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mtimes := make(map[string]int64)
	for rows.Next() {
		var p string
		var mtime int64
		if err := rows.Scan(&p, &mtime); err != nil {
			return nil, err
		}
		mtimes[p] = mtime
	}
	return mtimes, rows.Err()
}

// finishSync records sync metadata and commits
func (idx *Index) finishSync(tx *sql.Tx) error {
	meta := [][2]any{
		{"schema_version", schemaVersion},
		{"vault_path_hash", hashVaultPath(idx.vaultPath)},
		{"last_sync_time", time.Now().Unix()},
	}
	for _, kv := range meta {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to update metadata: %w", err)
		}
	}
	return tx.Commit()
}

// reresolveDangling retries resolution for edges whose target is unset or gone
func reresolveDangling(tx *sql.Tx, links *resolver) error {
	type dangling struct {
		rowid    int64
		source   string
		linkpath string
	}

	rows, err := tx.Query(`
		SELECT rowid, source_path, linkpath FROM edges
		WHERE target_path IS NULL OR target_path NOT IN (SELECT path FROM nodes)
	`)
	if err != nil {
		return err
	}
	var pending []dangling
	for rows.Next() {
		var d dangling
		if err := rows.Scan(&d.rowid, &d.source, &d.linkpath); err != nil {
			rows.Close()
			return err
		}
		pending = append(pending, d)
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, d := range pending {
		target := links.resolve(d.linkpath, d.source)
		if _, err := tx.Exec(`UPDATE edges SET target_path = ? WHERE rowid = ?`, nullString(target), d.rowid); err != nil {
			return err
		}
	}
	return nil
}

func deleteEdgesFrom(tx *sql.Tx, sourcePath string) (int, error) {
	res, err := tx.Exec(`DELETE FROM edges WHERE source_path = ?`, sourcePath)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(n), nil
}

func entryPaths(entries []vaultEntry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.node.Path
	}
	return paths
}

func isMarkdown(name string) bool {
	return strings.EqualFold(path.Ext(name), ".md")
}

func baseName(p string) string {
	return path.Base(p)
}
