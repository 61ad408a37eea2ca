// Package store persists named layout documents.
//
// Two backends are available:
//   - file: JSON documents in a directory, for CLI usage. Every stored
//     file is a plain layout document, so it can be opened, diffed and
//     hand-edited like any other.
//   - mongo: a MongoDB collection, for server deployments where
//     several replicas share one catalog.
//
// # Usage
//
// Create a store:
//
//	// CLI
//	st, err := store.NewFileStore("")  // Uses ~/.config/floorplan/layouts/
//
//	// Server
//	st, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "floorplan")
//
// Manage layouts:
//
//	id, err := st.Put(ctx, "", l)  // empty id mints one
//	l, err := st.Get(ctx, id)
//	infos, err := st.List(ctx)
//	err = st.Delete(ctx, id)
package store

import (
	"context"
	"time"

	"github.com/planstack/floorplan/pkg/layout"
)

// Info summarizes a stored layout without carrying its objects.
type Info struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Objects   int       `json:"objects" bson:"objects"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is a catalog of named layouts. Implementations must be safe
// for concurrent use.
type Store interface {
	// List returns summaries of every stored layout, ordered by id.
	List(ctx context.Context) ([]Info, error)
	// Get loads a layout. Missing ids return a LAYOUT_NOT_FOUND error.
	Get(ctx context.Context, id string) (*layout.Layout, error)
	// Put stores a layout under id, replacing any previous version.
	// An empty id mints a fresh one; the stored id is returned.
	Put(ctx context.Context, id string, l *layout.Layout) (string, error)
	// Delete removes a layout. Missing ids return a LAYOUT_NOT_FOUND error.
	Delete(ctx context.Context, id string) error
	// Close releases backend resources.
	Close() error
}
