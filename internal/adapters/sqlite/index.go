package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"orbnaments/internal/domain"
	"orbnaments/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "orbnaments-1"

// Index implements ports.LinkIndex using SQLite
type Index struct {
	db        *sql.DB
	vaultPath string
	dbPath    string
}

// Ensure Index implements LinkIndex
var _ ports.LinkIndex = (*Index)(nil)

// NewIndex creates a new SQLite index
func NewIndex() *Index {
	return &Index{}
}

// Open initializes the index for the given vault path
func (idx *Index) Open(vaultPath string) error {
	// Expand ~ in path
	if len(vaultPath) > 0 && vaultPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		vaultPath = filepath.Join(home, vaultPath[1:])
	}

	abs, err := filepath.Abs(vaultPath)
	if err != nil {
		return fmt.Errorf("failed to resolve vault path: %w", err)
	}
	idx.vaultPath = abs
	idx.dbPath = DatabasePath(abs)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", idx.dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: transactions from concurrent store calls queue up instead of failing with SQLITE_BUSY
	db.SetMaxOpenConns(1)
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS nodes (
			path TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			folder TEXT NOT NULL,
			mtime INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS edges (
			source_path TEXT NOT NULL,
			link_text TEXT NOT NULL,
			linkpath TEXT NOT NULL,
			target_path TEXT
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_nodes_name ON nodes(name COLLATE NOCASE);
		CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_path);
		CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_path);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// VaultPath returns the absolute vault path the index was opened for
func (idx *Index) VaultPath() string {
	return idx.vaultPath
}

// NeedsFullRebuild returns true if the index should be fully rebuilt
func (idx *Index) NeedsFullRebuild() bool {
	var version, vaultHash string

	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'vault_path_hash'").Scan(&vaultHash)

	expectedHash := hashVaultPath(idx.vaultPath)

	return version != schemaVersion || vaultHash != expectedHash
}

// DatabasePath returns the path for the SQLite database of a vault
func DatabasePath(vaultPath string) string {
	// XDG data directory
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}

	// Hash vault path for unique DB name
	hash := hashVaultPath(vaultPath)

	return filepath.Join(dataHome, "orbnaments", hash+".db")
}

// hashVaultPath returns a short hash of the vault path
func hashVaultPath(vaultPath string) string {
	h := sha256.Sum256([]byte(vaultPath))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}

// GetNode retrieves a node by path
func (idx *Index) GetNode(path string) (*domain.IndexNode, error) {
	var node domain.IndexNode

	err := idx.db.QueryRow(`
		SELECT path, name, folder, mtime
		FROM nodes WHERE path = ?
	`, path).Scan(&node.Path, &node.Name, &node.Folder, &node.Mtime)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &node, nil
}

// ResolveLinkpath returns the path linkpath resolves to from sourcePath, "" if none
func (idx *Index) ResolveLinkpath(linkpath, sourcePath string) (string, error) {
	paths, err := queryPaths(idx.db)
	if err != nil {
		return "", err
	}
	return newResolver(paths).resolve(linkpath, sourcePath), nil
}

// ResolvedLinks aggregates resolved edges into source -> target -> count
func (idx *Index) ResolvedLinks() (domain.ResolvedLinks, error) {
	rows, err := idx.db.Query(`
		SELECT source_path, target_path, COUNT(*)
		FROM edges WHERE target_path IS NOT NULL
		GROUP BY source_path, target_path
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := domain.ResolvedLinks{}
	for rows.Next() {
		var source, target string
		var count int
		if err := rows.Scan(&source, &target, &count); err != nil {
			return nil, err
		}
		if links[source] == nil {
			links[source] = map[string]int{}
		}
		links[source][target] = count
	}

	return links, rows.Err()
}

// FindLinksTo returns all edges resolved to targetPath
func (idx *Index) FindLinksTo(targetPath string) ([]domain.Edge, error) {
	return queryEdges(idx.db, `
		SELECT source_path, link_text, linkpath, target_path
		FROM edges WHERE target_path = ?
		ORDER BY source_path, link_text
	`, targetPath)
}

// FindLinksFromFile returns all edges from a source file
func (idx *Index) FindLinksFromFile(sourcePath string) ([]domain.Edge, error) {
	return queryEdges(idx.db, `
		SELECT source_path, link_text, linkpath, target_path
		FROM edges WHERE source_path = ?
		ORDER BY rowid
	`, sourcePath)
}

// BeginTx starts a new transaction
func (idx *Index) BeginTx() (ports.IndexTx, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &indexTx{tx: tx}, nil
}

// querier is the read side shared by *sql.DB and *sql.Tx
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func queryPaths(q querier) ([]string, error) {
	rows, err := q.Query(`SELECT path FROM nodes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func queryEdges(q querier, query string, args ...any) ([]domain.Edge, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []domain.Edge
	for rows.Next() {
		var e domain.Edge
		var target sql.NullString
		if err := rows.Scan(&e.SourcePath, &e.LinkText, &e.Linkpath, &target); err != nil {
			return nil, err
		}
		e.TargetPath = target.String
		edges = append(edges, e)
	}

	return edges, rows.Err()
}
