package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"orbnaments/internal/domain"
	"orbnaments/internal/logging"
	"orbnaments/internal/ports"
)

// TrashDir is Obsidian's vault-local trash folder
const TrashDir = ".trash"

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotAFolder    = errors.New("not a folder")
	ErrOutsideVault  = errors.New("path is outside the vault")
	ErrNoLinkIndex   = errors.New("no link index configured")
)

// Store implements ports.VaultStore using the filesystem
type Store struct {
	vaultPath string
	index     ports.LinkIndex
	trashMode domain.TrashMode
	log       *slog.Logger

	// trashMu serialises picking free names in the trash folder
	trashMu sync.Mutex
}

// Ensure Store implements VaultStore
var _ ports.VaultStore = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithLinkIndex sets the index used for link queries and kept current after mutations
func WithLinkIndex(idx ports.LinkIndex) Option {
	return func(s *Store) { s.index = idx }
}

// WithTrashMode sets how trashed files are disposed of
func WithTrashMode(mode domain.TrashMode) Option {
	return func(s *Store) { s.trashMode = mode }
}

// WithLogger sets the store logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore creates a new filesystem store
func NewStore(vaultPath string, opts ...Option) *Store {
	// Expand ~ to home directory
	if strings.HasPrefix(vaultPath, "~") {
		home, _ := os.UserHomeDir()
		vaultPath = filepath.Join(home, vaultPath[1:])
	}
	s := &Store{
		vaultPath: vaultPath,
		trashMode: domain.TrashLocal,
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VaultPath returns the vault root on disk
func (s *Store) VaultPath() string {
	return s.vaultPath
}

// ListFiles returns every regular file in the vault, skipping hidden entries
func (s *Store) ListFiles(ctx context.Context) ([]domain.FileRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var files []domain.FileRef
	err := filepath.WalkDir(s.vaultPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == s.vaultPath {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(s.vaultPath, p)
		if err != nil {
			return err
		}
		files = append(files, fileRef(filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list vault files: %w", err)
	}

	return files, nil
}

// GetFileByPath returns the file at a vault-relative path, nil if there is none
func (s *Store) GetFileByPath(ctx context.Context, relPath string) (*domain.FileRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if domain.EscapesVault(relPath) {
		return nil, nil
	}
	rel := domain.NormalizePath(relPath)
	if rel == "" {
		return nil, nil
	}

	info, err := os.Stat(s.abs(rel))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", rel, err)
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}

	f := fileRef(rel)
	return &f, nil
}

// GetFolderByPath returns the folder at a vault-relative path, nil if there is none
func (s *Store) GetFolderByPath(ctx context.Context, relPath string) (*domain.FolderRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if domain.EscapesVault(relPath) {
		return nil, nil
	}
	rel := domain.NormalizePath(relPath)

	info, err := os.Stat(s.abs(rel))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", rel, err)
	}
	if !info.IsDir() {
		return nil, nil
	}

	return folderRef(rel), nil
}

// CreateFolder creates a folder and any missing parents
func (s *Store) CreateFolder(ctx context.Context, relPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if domain.EscapesVault(relPath) {
		return fmt.Errorf("failed to create folder %s: %w", relPath, ErrOutsideVault)
	}
	rel := domain.NormalizePath(relPath)
	if rel == "" {
		return fmt.Errorf("failed to create folder: %w", ErrAlreadyExists)
	}

	if info, err := os.Stat(s.abs(rel)); err == nil && !info.IsDir() {
		return fmt.Errorf("failed to create folder %s: %w", rel, ErrNotAFolder)
	}
	if err := os.MkdirAll(s.abs(rel), 0755); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", rel, err)
	}

	s.log.Debug("folder created", "path", rel)
	return nil
}

// Trash moves a file into the vault's .trash folder, or deletes it in TrashDelete mode
func (s *Store) Trash(ctx context.Context, file domain.FileRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel := domain.NormalizePath(file.Path)
	src := s.abs(rel)

	if s.trashMode == domain.TrashDelete {
		if err := os.Remove(src); err != nil {
			return fmt.Errorf("failed to delete %s: %w", rel, err)
		}
	} else {
		dst, err := s.moveToTrash(src, file.Name)
		if err != nil {
			return fmt.Errorf("failed to trash %s: %w", rel, err)
		}
		s.log.Debug("moved to trash", "path", rel, "trash_path", dst)
	}

	s.updateIndex("trash", rel, func(tx ports.IndexTx) error {
		return tx.DeleteNode(rel)
	})
	return nil
}

// moveToTrash renames src into the trash folder under a free name
func (s *Store) moveToTrash(src, name string) (string, error) {
	trash := filepath.Join(s.vaultPath, TrashDir)
	if err := os.MkdirAll(trash, 0755); err != nil {
		return "", err
	}

	s.trashMu.Lock()
	defer s.trashMu.Unlock()

	if _, err := os.Stat(src); err != nil {
		return "", err
	}
	dst := filepath.Join(trash, freeName(trash, name))
	if err := os.Rename(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// freeName returns name, or name with " 1", " 2", ... before the extension
// when the trash already holds a file by that name
func freeName(dir, name string) string {
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := name
	for i := 1; ; i++ {
		if _, err := os.Lstat(filepath.Join(dir, candidate)); errors.Is(err, fs.ErrNotExist) {
			return candidate
		}
		candidate = fmt.Sprintf("%s %d%s", stem, i, ext)
	}
}

// Rename moves a file to newPath. The destination folder must exist and
// an existing file at newPath is never overwritten.
func (s *Store) Rename(ctx context.Context, file domain.FileRef, newPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if domain.EscapesVault(newPath) {
		return fmt.Errorf("failed to move %s: %w", file.Path, ErrOutsideVault)
	}
	oldRel := domain.NormalizePath(file.Path)
	newRel := domain.NormalizePath(newPath)
	if oldRel == newRel {
		return nil
	}

	dst := s.abs(newRel)
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("failed to move %s to %s: %w", oldRel, newRel, ErrAlreadyExists)
	}
	if info, err := os.Stat(filepath.Dir(dst)); err != nil {
		return fmt.Errorf("failed to move %s: destination folder: %w", oldRel, err)
	} else if !info.IsDir() {
		return fmt.Errorf("failed to move %s: %w", oldRel, ErrNotAFolder)
	}

	if err := os.Rename(s.abs(oldRel), dst); err != nil {
		return fmt.Errorf("failed to move %s: %w", oldRel, err)
	}
	s.log.Debug("moved", "path", oldRel, "new_path", newRel)

	s.updateIndex("rename", oldRel, func(tx ports.IndexTx) error {
		if err := tx.RenameNode(oldRel, newRel); err != nil {
			return err
		}
		return tx.RetargetEdges(oldRel, newRel)
	})
	return nil
}

// ResolveLink resolves a link name to a file, nil when it does not resolve
func (s *Store) ResolveLink(ctx context.Context, name, sourcePath string) (*domain.FileRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.index == nil {
		return nil, ErrNoLinkIndex
	}

	target, err := s.index.ResolveLinkpath(name, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	if target == "" {
		return nil, nil
	}
	return s.GetFileByPath(ctx, target)
}

// ResolvedLinks returns the resolved link graph from the index
func (s *Store) ResolvedLinks(ctx context.Context) (domain.ResolvedLinks, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.index == nil {
		return nil, ErrNoLinkIndex
	}

	links, err := s.index.ResolvedLinks()
	if err != nil {
		return nil, fmt.Errorf("failed to read resolved links: %w", err)
	}
	return links, nil
}

// updateIndex applies a change to the link index after a successful disk mutation.
// Failures are logged only: the disk is the source of truth and the next sync repairs the index.
func (s *Store) updateIndex(op, relPath string, fn func(ports.IndexTx) error) {
	if s.index == nil {
		return
	}

	tx, err := s.index.BeginTx()
	if err != nil {
		s.log.Warn("index update skipped", "op", op, "path", relPath, "error", err)
		return
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		s.log.Warn("index update failed", "op", op, "path", relPath, "error", err)
		return
	}
	if err := tx.Commit(); err != nil {
		s.log.Warn("index commit failed", "op", op, "path", relPath, "error", err)
	}
}

func (s *Store) abs(rel string) string {
	return filepath.Join(s.vaultPath, filepath.FromSlash(rel))
}

func fileRef(rel string) domain.FileRef {
	return domain.FileRef{
		Path:   rel,
		Name:   path.Base(rel),
		Parent: folderRef(domain.ParentPath(rel)),
	}
}

func folderRef(rel string) *domain.FolderRef {
	if rel == "" {
		return &domain.FolderRef{Path: "/"}
	}
	return &domain.FolderRef{Path: rel, Name: path.Base(rel)}
}
