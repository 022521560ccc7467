package ports

import (
	"context"

	"orbnaments/internal/domain"
)

// VaultStore defines the file operations the maintenance commands need from a vault host
type VaultStore interface {
	// Listing and lookup. Lookups return nil, nil when nothing exists at the path.
	ListFiles(ctx context.Context) ([]domain.FileRef, error)
	GetFileByPath(ctx context.Context, path string) (*domain.FileRef, error)
	GetFolderByPath(ctx context.Context, path string) (*domain.FolderRef, error)

	// Mutations
	CreateFolder(ctx context.Context, path string) error
	Trash(ctx context.Context, file domain.FileRef) error
	Rename(ctx context.Context, file domain.FileRef, newPath string) error

	// Link graph
	ResolveLink(ctx context.Context, name, sourcePath string) (*domain.FileRef, error)
	ResolvedLinks(ctx context.Context) (domain.ResolvedLinks, error)
}

// Maintenance runs the vault maintenance commands on behalf of a front end
type Maintenance interface {
	RemoveSyncConflicts(ctx context.Context, dryRun bool) (*domain.Outcome, error)
	MoveLinkedFiles(ctx context.Context, targetNote, destinationFolder string, dryRun bool) (*domain.Outcome, error)
}
