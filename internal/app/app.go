package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"orbnaments/internal/adapters/filelock"
	"orbnaments/internal/adapters/filesystem"
	"orbnaments/internal/adapters/sqlite"
	"orbnaments/internal/application"
	"orbnaments/internal/application/commands"
	"orbnaments/internal/config"
	"orbnaments/internal/domain"
	"orbnaments/internal/logging"
	"orbnaments/internal/ports"
)

// Options controls how an App is built
type Options struct {
	VaultPath string    // Defaults to config.VaultPath()
	LogLevel  string    // Overrides the configured level when set
	LogOutput io.Writer // Defaults to os.Stderr
}

// App holds the wired dependencies for one vault
type App struct {
	VaultPath string
	Settings  *config.Settings
	Logger    *slog.Logger
	Index     *sqlite.Index
	Store     *filesystem.Store

	lock *filelock.FileLock
}

// Ensure App implements Maintenance
var _ ports.Maintenance = (*App)(nil)

// New initializes an App for a vault with all dependencies wired up.
// The link index is rebuilt when it is missing or stale.
func New(opts Options) (*App, error) {
	vaultPath := opts.VaultPath
	if vaultPath == "" {
		vaultPath = config.VaultPath()
	}
	vaultPath, err := config.ExpandPath(vaultPath)
	if err != nil {
		return nil, err
	}
	vaultPath, err = filepath.Abs(vaultPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault path: %w", err)
	}
	if info, err := os.Stat(vaultPath); err != nil {
		return nil, fmt.Errorf("vault not found: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("vault is not a folder: %s", vaultPath)
	}

	settings, err := config.Load(vaultPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.LogLevel != "" {
		settings.LogLevel = opts.LogLevel
		if err := settings.Validate(); err != nil {
			return nil, fmt.Errorf("invalid options: %w", err)
		}
	}
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger := logging.New(settings.LogLevel, out).With("vault", filepath.Base(vaultPath))

	idx := sqlite.NewIndex()
	if err := idx.Open(vaultPath); err != nil {
		return nil, fmt.Errorf("failed to open link index: %w", err)
	}

	if idx.NeedsFullRebuild() {
		stats, err := idx.SyncFull()
		if err != nil {
			idx.Close()
			return nil, fmt.Errorf("failed to build link index: %w", err)
		}
		logger.Info("link index built",
			"files", stats.FilesScanned,
			"links", stats.EdgesAdded,
			"duration", stats.Duration,
		)
	}

	store := filesystem.NewStore(vaultPath,
		filesystem.WithLinkIndex(idx),
		filesystem.WithTrashMode(settings.TrashMode),
		filesystem.WithLogger(logger),
	)

	lockPath := strings.TrimSuffix(sqlite.DatabasePath(vaultPath), ".db") + ".lock"

	return &App{
		VaultPath: vaultPath,
		Settings:  settings,
		Logger:    logger,
		Index:     idx,
		Store:     store,
		lock:      filelock.NewFileLock(lockPath),
	}, nil
}

// RemoveSyncConflicts trashes every sync conflict file in the vault
func (a *App) RemoveSyncConflicts(ctx context.Context, dryRun bool) (*domain.Outcome, error) {
	var outcome *domain.Outcome
	err := a.withLock(func() error {
		cmd := commands.NewRemoveSyncConflictsCommand(a.Store, a.Settings.ConflictMarker)
		cmd.DryRun = dryRun
		cmd.Logger = a.Logger

		var err error
		outcome, err = cmd.Execute(ctx)
		return err
	})
	return outcome, err
}

// MoveLinkedFiles moves root-level files linking to targetNote into destinationFolder.
// Empty arguments fall back to the configured target note and destination folder.
func (a *App) MoveLinkedFiles(ctx context.Context, targetNote, destinationFolder string, dryRun bool) (*domain.Outcome, error) {
	if strings.TrimSpace(targetNote) == "" {
		targetNote = a.Settings.TargetNote
	}
	if strings.TrimSpace(destinationFolder) == "" {
		destinationFolder = a.Settings.DestinationFolder
	}

	var outcome *domain.Outcome
	err := a.withLock(func() error {
		if _, err := a.Index.SyncIncremental(); err != nil {
			return application.NewScanError("sync link index", err)
		}

		cmd := commands.NewMoveLinkedFilesCommand(a.Store, targetNote, destinationFolder)
		cmd.DryRun = dryRun
		cmd.Logger = a.Logger

		var err error
		outcome, err = cmd.Execute(ctx)
		return err
	})
	return outcome, err
}

// Reindex brings the link index up to date, rebuilding it from scratch when full is set.
// Unlike the maintenance commands it waits for a held vault lock until ctx is done.
func (a *App) Reindex(ctx context.Context, full bool) (*domain.SyncStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var stats *domain.SyncStats
	err := a.waitLock(ctx, func() error {
		var err error
		if full {
			stats, err = a.Index.SyncFull()
		} else {
			stats, err = a.Index.SyncIncremental()
		}
		if err != nil {
			return fmt.Errorf("failed to sync link index: %w", err)
		}
		a.Logger.Info("link index synced",
			"full", full,
			"scanned", stats.FilesScanned,
			"added", stats.NodesAdded,
			"updated", stats.NodesUpdated,
			"deleted", stats.NodesDeleted,
			"duration", stats.Duration,
		)
		return nil
	})
	return stats, err
}

// Close releases the link index
func (a *App) Close() error {
	if a.Index != nil {
		return a.Index.Close()
	}
	return nil
}

// withLock runs fn while holding the vault lock; a held lock fails fast with ErrVaultBusy
func (a *App) withLock(fn func() error) error {
	acquired, err := a.lock.TryLock()
	if err != nil {
		return err
	}
	if !acquired {
		return application.ErrVaultBusy
	}
	defer func() {
		if err := a.lock.Unlock(); err != nil {
			a.Logger.Warn("failed to release vault lock", "error", err)
		}
	}()
	return fn()
}

// waitLock runs fn once the vault lock is free or fails when ctx ends
func (a *App) waitLock(ctx context.Context, fn func() error) error {
	if err := a.lock.LockContext(ctx); err != nil {
		return err
	}
	defer func() {
		if err := a.lock.Unlock(); err != nil {
			a.Logger.Warn("failed to release vault lock", "error", err)
		}
	}()
	return fn()
}
