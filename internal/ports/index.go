package ports

import "orbnaments/internal/domain"

// LinkIndex provides cached access to vault files and their link graph
type LinkIndex interface {
	// Lifecycle
	Open(vaultPath string) error
	Close() error

	// Sync operations
	NeedsFullRebuild() bool
	SyncIncremental() (*domain.SyncStats, error)
	SyncFull() (*domain.SyncStats, error)

	// Node queries
	GetNode(path string) (*domain.IndexNode, error)

	// Link queries. ResolveLinkpath returns "" when the link does not resolve.
	ResolveLinkpath(linkpath, sourcePath string) (string, error)
	ResolvedLinks() (domain.ResolvedLinks, error)
	FindLinksTo(targetPath string) ([]domain.Edge, error)
	FindLinksFromFile(sourcePath string) ([]domain.Edge, error)

	// Batch updates (after trash/move)
	BeginTx() (IndexTx, error)
}

// IndexTx represents a transaction for atomic cache updates
type IndexTx interface {
	// Node operations
	UpsertNode(node *domain.IndexNode) error
	DeleteNode(path string) error
	RenameNode(oldPath, newPath string) error

	// Edge operations
	DeleteEdgesFromFile(sourcePath string) error
	InsertEdge(edge *domain.Edge) error
	RetargetEdges(oldTargetPath, newTargetPath string) error

	// Transaction control
	Commit() error
	Rollback() error
}
