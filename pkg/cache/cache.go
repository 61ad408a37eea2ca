// Package cache provides pluggable result caching for the planning
// pipeline. Audit reports, escape routes and rendered artifacts are
// keyed by content hashes, so identical inputs hit the cache no matter
// where the layout came from.
//
// Three backends are available: [FileCache] for CLI usage, [RedisCache]
// for the server, and [NullCache] to disable caching. Keys come from a
// [Keyer], which multi-tenant deployments wrap with [ScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache entry lifetimes. Reports and routes are cheap to recompute, so
// they expire daily; rendered artifacts are the expensive stage and
// stay for a week.
const (
	TTLReport   = 24 * time.Hour
	TTLRoute    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores binary blobs with per-entry expiry. Implementations must
// be safe for concurrent use. A zero TTL means the entry never expires.
type Cache interface {
	// Get returns the cached data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key for the given lifetime.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys for the pipeline stages. Every key embeds the
// layout's content hash, so editing a layout naturally invalidates its
// cached results.
type Keyer interface {
	// ReportKey keys an audit report by layout and ruleset content.
	ReportKey(layoutHash string, opts ReportKeyOpts) string
	// RouteKey keys computed escape routes.
	RouteKey(layoutHash string, opts RouteKeyOpts) string
	// ArtifactKey keys a rendered output.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// ReportKeyOpts carries everything besides the layout that changes an
// audit result.
type ReportKeyOpts struct {
	RulesHash string `json:"rules_hash"`
}

// RouteKeyOpts carries the routing parameters.
type RouteKeyOpts struct {
	CellSize float64 `json:"cell_size"`
}

// ArtifactKeyOpts carries the rendering parameters.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Style  string  `json:"style"`
	Scale  float64 `json:"scale"`
	Grid   bool    `json:"grid"`
	Labels bool    `json:"labels"`
	Routes bool    `json:"routes"`
	Issues bool    `json:"issues"`
}

// DefaultKeyer produces keys of the form stage:sha256(parts).
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ReportKey generates a key for audit report caching.
func (k *DefaultKeyer) ReportKey(layoutHash string, opts ReportKeyOpts) string {
	return hashKey("report", layoutHash, opts)
}

// RouteKey generates a key for escape route caching.
func (k *DefaultKeyer) RouteKey(layoutHash string, opts RouteKeyOpts) string {
	return hashKey("route", layoutHash, opts)
}

// ArtifactKey generates a key for rendered artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
