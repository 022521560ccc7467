package commands

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"orbnaments/internal/application"
	"orbnaments/internal/domain"
	"orbnaments/internal/ports"
)

const opRemoveSyncConflicts = "remove-sync-conflicts"

// RemoveSyncConflictsCommand trashes every file whose name carries the sync conflict marker
type RemoveSyncConflictsCommand struct {
	store  ports.VaultStore
	Marker string
	DryRun bool
	Logger *slog.Logger
}

// NewRemoveSyncConflictsCommand creates a new RemoveSyncConflictsCommand.
// An empty marker falls back to domain.SyncConflictMarker.
func NewRemoveSyncConflictsCommand(store ports.VaultStore, marker string) *RemoveSyncConflictsCommand {
	if marker == "" {
		marker = domain.SyncConflictMarker
	}
	return &RemoveSyncConflictsCommand{
		store:  store,
		Marker: marker,
	}
}

// Validate checks if the command can run
func (c *RemoveSyncConflictsCommand) Validate() error {
	return application.ValidateRequired("marker", c.Marker)
}

// Execute runs the remove command.
// The result counts every trashed file; if any trash call fails the whole run fails.
func (c *RemoveSyncConflictsCommand) Execute(ctx context.Context) (*domain.Outcome, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	log := loggerOrDiscard(c.Logger).With("op", opRemoveSyncConflicts, "run_id", uuid.NewString())

	files, err := c.store.ListFiles(ctx)
	if err != nil {
		log.Error("listing vault files failed", "error", err)
		return nil, application.NewScanError("list files", err)
	}

	matches := filterSyncConflicts(files, c.Marker)
	log.Debug("scan complete", "files", len(files), "matches", len(matches))

	if len(matches) == 0 {
		return &domain.Outcome{
			DryRun:  c.DryRun,
			Message: NoSyncConflictsNotice,
		}, nil
	}

	if c.DryRun {
		return &domain.Outcome{
			Count:   len(matches),
			Files:   paths(matches),
			DryRun:  true,
			Message: fmt.Sprintf("Found %d sync conflict file(s)", len(matches)),
		}, nil
	}

	err = runBatch(ctx, matches, func(ctx context.Context, f domain.FileRef) error {
		if err := c.store.Trash(ctx, f); err != nil {
			log.Warn("trash failed", "path", f.Path, "error", err)
			return application.NewMutationError("trash", f.Path, err)
		}
		log.Debug("trashed", "path", f.Path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("sync conflicts removed", "count", len(matches))
	return &domain.Outcome{
		Count:   len(matches),
		Files:   paths(matches),
		Message: fmt.Sprintf("Removed %d sync conflict file(s)", len(matches)),
	}, nil
}

// filterSyncConflicts keeps the files whose name carries marker, sorted by path
func filterSyncConflicts(files []domain.FileRef, marker string) []domain.FileRef {
	var out []domain.FileRef
	for _, f := range files {
		if domain.IsSyncConflict(f.Name, marker) {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b domain.FileRef) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out
}
