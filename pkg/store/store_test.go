package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/planstack/floorplan/pkg/errors"
	"github.com/planstack/floorplan/pkg/layout"
)

func testStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return s
}

func sampleLayout(t *testing.T, name string) *layout.Layout {
	t.Helper()
	l := layout.New(name, 900, 600)
	err := l.AddObject(layout.Object{ID: "desk_1", Type: "desk", X: 100, Y: 100, Width: 120, Height: 60})
	if err != nil {
		t.Fatalf("AddObject() error = %v", err)
	}
	return l
}

func TestFileStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	defer s.Close()

	id, err := s.Put(ctx, "floor-3", sampleLayout(t, "Floor 3"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if id != "floor-3" {
		t.Errorf("Put() id = %q, want %q", id, "floor-3")
	}

	l, err := s.Get(ctx, "floor-3")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if l.Name != "Floor 3" {
		t.Errorf("Get() name = %q, want %q", l.Name, "Floor 3")
	}
	if len(l.Objects) != 1 {
		t.Errorf("Get() objects = %d, want 1", len(l.Objects))
	}
}

func TestFileStoreMintsID(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	defer s.Close()

	id, err := s.Put(ctx, "", sampleLayout(t, "Unnamed"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if id == "" {
		t.Fatal("Put() minted an empty id")
	}

	if _, err := s.Get(ctx, id); err != nil {
		t.Errorf("Get(%q) error = %v", id, err)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	defer s.Close()

	_, err := s.Get(ctx, "ghost")
	if !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Errorf("Get(ghost) error = %v, want LAYOUT_NOT_FOUND", err)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	defer s.Close()

	for _, id := range []string{"../escape", "a/b", "bad\\id"} {
		if _, err := s.Get(ctx, id); !errors.Is(err, errors.ErrCodeInvalidPath) {
			t.Errorf("Get(%q) error = %v, want INVALID_PATH", id, err)
		}
		if _, err := s.Put(ctx, id, sampleLayout(t, "x")); !errors.Is(err, errors.ErrCodeInvalidPath) {
			t.Errorf("Put(%q) error = %v, want INVALID_PATH", id, err)
		}
	}
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	defer s.Close()

	if _, err := s.Put(ctx, "beta", sampleLayout(t, "Beta Floor")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, err := s.Put(ctx, "alpha", sampleLayout(t, "Alpha Floor")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	infos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("List() returned %d entries, want 2", len(infos))
	}
	if infos[0].ID != "alpha" || infos[1].ID != "beta" {
		t.Errorf("List() order = [%s %s], want [alpha beta]", infos[0].ID, infos[1].ID)
	}
	if infos[0].Name != "Alpha Floor" {
		t.Errorf("List() name = %q, want %q", infos[0].Name, "Alpha Floor")
	}
	if infos[0].Objects != 1 {
		t.Errorf("List() objects = %d, want 1", infos[0].Objects)
	}
	if infos[0].UpdatedAt.IsZero() {
		t.Error("List() UpdatedAt is zero")
	}
}

func TestFileStoreListSkipsBrokenEntries(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	defer s.Close()

	if _, err := s.Put(ctx, "good", sampleLayout(t, "Good")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatalf("write broken entry: %v", err)
	}

	infos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(infos) != 1 || infos[0].ID != "good" {
		t.Errorf("List() = %v, want only the good entry", infos)
	}
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	defer s.Close()

	if _, err := s.Put(ctx, "doomed", sampleLayout(t, "Doomed")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Delete(ctx, "doomed"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "doomed"); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Errorf("Get() after delete error = %v, want LAYOUT_NOT_FOUND", err)
	}
	if err := s.Delete(ctx, "doomed"); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Errorf("Delete() of missing error = %v, want LAYOUT_NOT_FOUND", err)
	}
}

func TestFileStoreReplace(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	defer s.Close()

	if _, err := s.Put(ctx, "floor", sampleLayout(t, "Before")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, err := s.Put(ctx, "floor", sampleLayout(t, "After")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	l, err := s.Get(ctx, "floor")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if l.Name != "After" {
		t.Errorf("Get() name = %q, want %q", l.Name, "After")
	}

	infos, _ := s.List(ctx)
	if len(infos) != 1 {
		t.Errorf("List() returned %d entries after replace, want 1", len(infos))
	}
}

func TestFileStoreDocumentsAreCanonical(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	defer s.Close()

	if _, err := s.Put(ctx, "plain", sampleLayout(t, "Plain")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Stored files are ordinary layout documents
	l, err := layout.ReadFile(filepath.Join(dir, "plain.json"))
	if err != nil {
		t.Fatalf("ReadFile() on stored document error = %v", err)
	}
	if l.Name != "Plain" {
		t.Errorf("stored document name = %q, want %q", l.Name, "Plain")
	}
}
