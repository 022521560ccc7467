package commands

import (
	"context"
	"errors"
	"path"
	"sync"

	"orbnaments/internal/domain"
)

var errInjected = errors.New("injected failure")

// fakeStore is an in-memory vault that records every call
type fakeStore struct {
	mu sync.Mutex

	files   map[string]bool
	folders map[string]bool
	links   domain.ResolvedLinks
	notes   map[string]string // link name -> path

	listErr         error
	resolveErr      error
	linksErr        error
	createErr       error
	createIsNoop    bool
	failTrash       map[string]bool
	failRename      map[string]bool
	trashCalls      []string
	renameCalls     map[string]string
	createCalls     []string
	folderLookups   int
	fileLookups     []string
}

func newFakeStore(paths ...string) *fakeStore {
	s := &fakeStore{
		files:       make(map[string]bool),
		folders:     make(map[string]bool),
		links:       domain.ResolvedLinks{},
		notes:       make(map[string]string),
		failTrash:   make(map[string]bool),
		failRename:  make(map[string]bool),
		renameCalls: make(map[string]string),
	}
	for _, p := range paths {
		s.addFile(p)
	}
	return s
}

func (s *fakeStore) addFile(p string) {
	s.files[p] = true
	for dir := domain.ParentPath(p); dir != ""; dir = domain.ParentPath(dir) {
		s.folders[dir] = true
	}
}

func (s *fakeStore) link(source, target string) {
	if s.links[source] == nil {
		s.links[source] = map[string]int{}
	}
	s.links[source][target]++
}

func (s *fakeStore) ref(p string) domain.FileRef {
	parent := domain.ParentPath(p)
	folder := &domain.FolderRef{Path: "/"}
	if parent != "" {
		folder = &domain.FolderRef{Path: parent, Name: path.Base(parent)}
	}
	return domain.FileRef{Path: p, Name: path.Base(p), Parent: folder}
}

func (s *fakeStore) ListFiles(_ context.Context) ([]domain.FileRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.FileRef
	for p := range s.files {
		out = append(out, s.ref(p))
	}
	return out, nil
}

func (s *fakeStore) GetFileByPath(_ context.Context, p string) (*domain.FileRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileLookups = append(s.fileLookups, p)
	if !s.files[p] {
		return nil, nil
	}
	f := s.ref(p)
	return &f, nil
}

func (s *fakeStore) GetFolderByPath(_ context.Context, p string) (*domain.FolderRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folderLookups++
	if !s.folders[p] {
		return nil, nil
	}
	return &domain.FolderRef{Path: p, Name: path.Base(p)}, nil
}

func (s *fakeStore) CreateFolder(_ context.Context, p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls = append(s.createCalls, p)
	if s.createErr != nil {
		return s.createErr
	}
	if !s.createIsNoop {
		s.folders[p] = true
	}
	return nil
}

func (s *fakeStore) Trash(_ context.Context, f domain.FileRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trashCalls = append(s.trashCalls, f.Path)
	if s.failTrash[f.Path] {
		return errInjected
	}
	delete(s.files, f.Path)
	return nil
}

func (s *fakeStore) Rename(_ context.Context, f domain.FileRef, newPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renameCalls[f.Path] = newPath
	if s.failRename[f.Path] {
		return errInjected
	}
	delete(s.files, f.Path)
	s.files[newPath] = true
	return nil
}

func (s *fakeStore) ResolveLink(_ context.Context, name, _ string) (*domain.FileRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	p, ok := s.notes[name]
	if !ok {
		return nil, nil
	}
	f := s.ref(p)
	return &f, nil
}

func (s *fakeStore) ResolvedLinks(_ context.Context) (domain.ResolvedLinks, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.linksErr != nil {
		return nil, s.linksErr
	}
	return s.links, nil
}
