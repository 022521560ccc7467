package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"orbnaments/internal/application"
	"orbnaments/internal/domain"
	"orbnaments/internal/ports"
)

const opMoveLinkedFiles = "move-linked-files"

var errFolderMissing = errors.New("folder missing after creation")

// MoveLinkedFilesCommand moves root-level files that link to a note into a folder
type MoveLinkedFilesCommand struct {
	store             ports.VaultStore
	TargetNote        string
	DestinationFolder string
	DryRun            bool
	Logger            *slog.Logger
}

// NewMoveLinkedFilesCommand creates a new MoveLinkedFilesCommand
func NewMoveLinkedFilesCommand(store ports.VaultStore, targetNote, destinationFolder string) *MoveLinkedFilesCommand {
	return &MoveLinkedFilesCommand{
		store:             store,
		TargetNote:        targetNote,
		DestinationFolder: destinationFolder,
	}
}

// Validate checks if the move operation is valid
func (c *MoveLinkedFilesCommand) Validate() error {
	if err := application.ValidateRequired("targetNote", c.TargetNote); err != nil {
		return err
	}
	return application.ValidateFolderPath("destinationFolder", c.DestinationFolder)
}

// Execute runs the move command.
// An unresolved target note or an empty candidate set is a successful run with count 0.
func (c *MoveLinkedFilesCommand) Execute(ctx context.Context) (*domain.Outcome, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	note := strings.TrimSpace(c.TargetNote)
	dest := domain.NormalizePath(strings.TrimSpace(c.DestinationFolder))
	log := loggerOrDiscard(c.Logger).With("op", opMoveLinkedFiles, "run_id", uuid.NewString(), "target", note, "destination", dest)

	target, err := c.store.ResolveLink(ctx, note, "")
	if err != nil {
		return nil, application.NewScanError("resolve link", err)
	}
	if target == nil {
		log.Info("target note does not resolve")
		return c.empty(note, "", dest), nil
	}

	candidates, err := c.collectCandidates(ctx, target.Path)
	if err != nil {
		return nil, err
	}
	log.Debug("scan complete", "target_path", target.Path, "candidates", len(candidates))

	if len(candidates) == 0 {
		return c.empty(note, target.Path, dest), nil
	}

	if c.DryRun {
		return &domain.Outcome{
			Count:       len(candidates),
			Files:       paths(candidates),
			DryRun:      true,
			Target:      target.Path,
			Destination: dest,
			Message:     fmt.Sprintf("Would move %d file(s) to %s", len(candidates), dest),
		}, nil
	}

	if err := c.ensureFolder(ctx, dest); err != nil {
		log.Error("destination folder unavailable", "error", err)
		return nil, err
	}

	err = runBatch(ctx, candidates, func(ctx context.Context, f domain.FileRef) error {
		newPath := domain.JoinPath(dest, f.Name)
		if err := c.store.Rename(ctx, f, newPath); err != nil {
			log.Warn("move failed", "path", f.Path, "new_path", newPath, "error", err)
			return application.NewMutationError("rename", f.Path, err)
		}
		log.Debug("moved", "path", f.Path, "new_path", newPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("linked files moved", "count", len(candidates))
	return &domain.Outcome{
		Count:       len(candidates),
		Files:       paths(candidates),
		Target:      target.Path,
		Destination: dest,
		Message:     fmt.Sprintf("Moved %d file(s) to %s", len(candidates), dest),
	}, nil
}

// collectCandidates returns the root-level files linking to targetPath, sorted by path
func (c *MoveLinkedFilesCommand) collectCandidates(ctx context.Context, targetPath string) ([]domain.FileRef, error) {
	links, err := c.store.ResolvedLinks(ctx)
	if err != nil {
		return nil, application.NewScanError("resolved links", err)
	}

	var candidates []domain.FileRef
	for _, source := range links.SourcesLinkingTo(targetPath) {
		f, err := c.store.GetFileByPath(ctx, source)
		if err != nil {
			return nil, application.NewScanError("get file", err)
		}
		if f == nil || !f.InRoot() {
			continue
		}
		candidates = append(candidates, *f)
	}
	return candidates, nil
}

// ensureFolder looks the folder up and creates it at most once
func (c *MoveLinkedFilesCommand) ensureFolder(ctx context.Context, path string) error {
	folder, err := c.store.GetFolderByPath(ctx, path)
	if err != nil {
		return application.NewFolderCreationError(path, err)
	}
	if folder != nil {
		return nil
	}

	if err := c.store.CreateFolder(ctx, path); err != nil {
		return application.NewFolderCreationError(path, err)
	}

	folder, err = c.store.GetFolderByPath(ctx, path)
	if err != nil {
		return application.NewFolderCreationError(path, err)
	}
	if folder == nil {
		return application.NewFolderCreationError(path, errFolderMissing)
	}
	return nil
}

func (c *MoveLinkedFilesCommand) empty(note, targetPath, dest string) *domain.Outcome {
	return &domain.Outcome{
		DryRun:      c.DryRun,
		Target:      targetPath,
		Destination: dest,
		Message:     NoLinkedFilesNotice(note),
	}
}
