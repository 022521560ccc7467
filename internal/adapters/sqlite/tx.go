package sqlite

import (
	"database/sql"

	"orbnaments/internal/domain"
	"orbnaments/internal/ports"
)

// indexTx implements ports.IndexTx
type indexTx struct {
	tx *sql.Tx
}

// Ensure indexTx implements IndexTx
var _ ports.IndexTx = (*indexTx)(nil)

// UpsertNode inserts or updates a node
func (t *indexTx) UpsertNode(node *domain.IndexNode) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO nodes (path, name, folder, mtime)
		VALUES (?, ?, ?, ?)
	`, node.Path, node.Name, node.Folder, node.Mtime)
	return err
}

// DeleteNode removes a node and its outgoing edges.
// Edges that resolved to it become unresolved.
func (t *indexTx) DeleteNode(path string) error {
	if _, err := t.tx.Exec(`DELETE FROM nodes WHERE path = ?`, path); err != nil {
		return err
	}
	if err := t.DeleteEdgesFromFile(path); err != nil {
		return err
	}
	_, err := t.tx.Exec(`UPDATE edges SET target_path = NULL WHERE target_path = ?`, path)
	return err
}

// RenameNode moves a node and its outgoing edges to newPath
func (t *indexTx) RenameNode(oldPath, newPath string) error {
	_, err := t.tx.Exec(`
		UPDATE nodes SET path = ?, name = ?, folder = ? WHERE path = ?
	`, newPath, baseName(newPath), domain.ParentPath(newPath), oldPath)
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(`UPDATE edges SET source_path = ? WHERE source_path = ?`, newPath, oldPath)
	return err
}

// DeleteEdgesFromFile removes all edges from a source file
func (t *indexTx) DeleteEdgesFromFile(sourcePath string) error {
	_, err := t.tx.Exec(`DELETE FROM edges WHERE source_path = ?`, sourcePath)
	return err
}

// InsertEdge adds a new edge
func (t *indexTx) InsertEdge(edge *domain.Edge) error {
	_, err := t.tx.Exec(`
		INSERT INTO edges (source_path, link_text, linkpath, target_path)
		VALUES (?, ?, ?, ?)
	`, edge.SourcePath, edge.LinkText, edge.Linkpath, nullString(edge.TargetPath))
	return err
}

// RetargetEdges points every edge resolved to oldTargetPath at newTargetPath
func (t *indexTx) RetargetEdges(oldTargetPath, newTargetPath string) error {
	_, err := t.tx.Exec(`
		UPDATE edges SET target_path = ? WHERE target_path = ?
	`, newTargetPath, oldTargetPath)
	return err
}

// Commit commits the transaction
func (t *indexTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *indexTx) Rollback() error {
	return t.tx.Rollback()
}

// nullString returns nil for empty strings (for nullable columns)
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
