package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/planstack/floorplan/pkg/errors"
	"github.com/planstack/floorplan/pkg/layout"
)

// FileStore keeps each layout as a JSON document in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based layout store.
// If baseDir is empty, defaults to ~/.config/floorplan/layouts/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "get home dir")
		}
		baseDir = filepath.Join(home, ".config", "floorplan", "layouts")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create layout dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) layoutPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// List returns summaries of every stored layout, ordered by id.
// Entries that no longer parse are skipped rather than failing the
// whole listing.
func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read layout dir")
	}

	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		l, err := layout.ReadFile(path)
		if err != nil {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			ID:        strings.TrimSuffix(entry.Name(), ".json"),
			Name:      l.Name,
			Objects:   len(l.Objects),
			UpdatedAt: fi.ModTime().UTC(),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// Get loads a layout by id.
func (s *FileStore) Get(ctx context.Context, id string) (*layout.Layout, error) {
	if err := errors.ValidateStoreID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.layoutPath(id)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeLayoutNotFound, "layout %q not found", id)
	}

	l, err := layout.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read layout %q", id)
	}
	return l, nil
}

// Put stores a layout, replacing any previous version. An empty id
// mints a fresh one.
func (s *FileStore) Put(ctx context.Context, id string, l *layout.Layout) (string, error) {
	if id == "" {
		id = uuid.NewString()
	} else if err := errors.ValidateStoreID(id); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := layout.WriteFile(l, s.layoutPath(id)); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes a stored layout.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateStoreID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.layoutPath(id))
	if os.IsNotExist(err) {
		return errors.New(errors.ErrCodeLayoutNotFound, "layout %q not found", id)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "remove layout %q", id)
	}
	return nil
}

// Close does nothing for file stores.
func (s *FileStore) Close() error { return nil }

// Path returns the base directory for layout files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
