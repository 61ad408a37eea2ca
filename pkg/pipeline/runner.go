package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/planstack/floorplan/pkg/cache"
	"github.com/planstack/floorplan/pkg/layout"
	"github.com/planstack/floorplan/pkg/observability"
	"github.com/planstack/floorplan/pkg/render"
	"github.com/planstack/floorplan/pkg/route"
	"github.com/planstack/floorplan/pkg/rules"
	"github.com/planstack/floorplan/pkg/validate"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → check → route → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load (never cached; disk is the source of truth)
	loadStart := time.Now()
	l, err := r.Load(ctx, opts.Input)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Layout = l
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.ObjectCount = len(l.Objects)
	result.LayoutHash = layoutHash(l)

	r.Logger.Info("loaded layout",
		"name", l.Name,
		"objects", len(l.Objects),
		"duration", result.Stats.LoadTime)

	// Stage 2: Check
	checkStart := time.Now()
	report, checkHit, err := r.CheckWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	result.Report = report
	result.Stats.CheckTime = time.Since(checkStart)
	result.Stats.IssueCount = len(report.Issues)
	result.CacheInfo.CheckHit = checkHit

	r.Logger.Info("audited layout",
		"issues", len(report.Issues),
		"duration", result.Stats.CheckTime)

	// Stage 3: Route
	routeStart := time.Now()
	routes, routeHit, err := r.RoutesWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}
	result.Routes = routes
	result.Stats.RouteTime = time.Since(routeStart)
	result.CacheInfo.RouteHit = routeHit

	r.Logger.Info("computed escape routes",
		"paths", len(routes),
		"duration", result.Stats.RouteTime)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, report, routes, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and validates a layout document from disk.
func (r *Runner) Load(ctx context.Context, path string) (*layout.Layout, error) {
	start := time.Now()
	observability.Planner().OnLoadStart(ctx, path)

	l, err := layout.ReadFile(path)
	if err != nil {
		observability.Planner().OnLoadComplete(ctx, path, 0, time.Since(start), err)
		return nil, err
	}

	observability.Planner().OnLoadComplete(ctx, path, len(l.Objects), time.Since(start), nil)
	return l, nil
}

// Rules resolves the active ruleset: the file named by opts.RulesPath,
// or the built-in defaults when no file is configured.
func (r *Runner) Rules(opts Options) (rules.Ruleset, error) {
	if opts.RulesPath == "" {
		return rules.Default(), nil
	}
	return rules.Load(opts.RulesPath)
}

// CheckWithCacheInfo audits a layout with caching and returns cache hit info.
func (r *Runner) CheckWithCacheInfo(ctx context.Context, l *layout.Layout, opts Options) (validate.Report, bool, error) {
	r.applyLogger(&opts)

	rs, err := r.Rules(opts)
	if err != nil {
		return validate.Report{}, false, err
	}

	hash := layoutHash(l)
	rulesData, _ := json.Marshal(rs)
	cacheKey := r.Keyer.ReportKey(hash, opts.ReportKeyOpts(cache.Hash(rulesData)))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached validate.Report
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.CacheEvents().OnCacheHit(ctx, "report")
				return cached, true, nil
			}
		}
		observability.CacheEvents().OnCacheMiss(ctx, "report")
	}

	start := time.Now()
	observability.Planner().OnCheckStart(ctx, hash)
	report := validate.Check(l, rs)
	observability.Planner().OnCheckComplete(ctx, hash, len(report.Issues), time.Since(start), nil)

	if data, err := json.Marshal(report); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLReport); err == nil {
			observability.CacheEvents().OnCacheSet(ctx, "report", len(data))
		}
	}

	return report, false, nil
}

// Check is a convenience wrapper that calls CheckWithCacheInfo and discards the cache hit info.
func (r *Runner) Check(ctx context.Context, l *layout.Layout, opts Options) (validate.Report, error) {
	report, _, err := r.CheckWithCacheInfo(ctx, l, opts)
	return report, err
}

// RoutesWithCacheInfo computes the escape route of every seat with caching
// and returns cache hit info. Seats with no route are omitted; the audit
// stage reports them separately.
func (r *Runner) RoutesWithCacheInfo(ctx context.Context, l *layout.Layout, opts Options) (map[string]route.Path, bool, error) {
	r.applyLogger(&opts)

	hash := layoutHash(l)
	cacheKey := r.Keyer.RouteKey(hash, opts.RouteKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached map[string]route.Path
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.CacheEvents().OnCacheHit(ctx, "route")
				return cached, true, nil
			}
		}
		observability.CacheEvents().OnCacheMiss(ctx, "route")
	}

	start := time.Now()
	observability.Planner().OnRouteStart(ctx, hash)
	var routeOpts []route.Option
	if opts.CellSize > 0 {
		routeOpts = append(routeOpts, route.WithCellSize(opts.CellSize))
	}
	paths, stranded := route.AllSeats(l, routeOpts...)
	observability.Planner().OnRouteComplete(ctx, hash, len(paths), time.Since(start), nil)

	for id, err := range stranded {
		r.Logger.Debug("seat has no escape route", "object", id, "err", err)
	}

	if data, err := json.Marshal(paths); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLRoute); err == nil {
			observability.CacheEvents().OnCacheSet(ctx, "route", len(data))
		}
	}

	return paths, false, nil
}

// Routes is a convenience wrapper that calls RoutesWithCacheInfo and discards the cache hit info.
func (r *Runner) Routes(ctx context.Context, l *layout.Layout, opts Options) (map[string]route.Path, error) {
	paths, _, err := r.RoutesWithCacheInfo(ctx, l, opts)
	return paths, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *layout.Layout, report validate.Report, routes map[string]route.Path, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hash := layoutHash(l)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.CacheEvents().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.CacheEvents().OnCacheMiss(ctx, "artifact")
	}

	start := time.Now()
	observability.Planner().OnRenderStart(ctx, opts.Formats)

	renderOpts := buildRenderOpts(report, routes, opts)
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := render.Render(l, format, renderOpts...)
		if err != nil {
			observability.Planner().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data
	}
	observability.Planner().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.CacheEvents().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l *layout.Layout, report validate.Report, routes map[string]route.Path, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, report, routes, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// buildRenderOpts translates pipeline options into render options.
func buildRenderOpts(report validate.Report, routes map[string]route.Path, opts Options) []render.Option {
	result := []render.Option{render.WithScale(opts.Scale)}
	if style, err := render.StyleFor(opts.Style); err == nil {
		result = append(result, render.WithStyle(style))
	}
	if opts.Grid {
		result = append(result, render.WithGrid())
	}
	if opts.Labels {
		result = append(result, render.WithLabels())
	}
	if opts.ShowRoutes && len(routes) > 0 {
		// Stable order keeps rendered bytes deterministic across runs.
		ids := make([]string, 0, len(routes))
		for id := range routes {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		paths := make([]route.Path, 0, len(ids))
		for _, id := range ids {
			paths = append(paths, routes[id])
		}
		result = append(result, render.WithRoutes(paths...))
	}
	if opts.ShowIssues && len(report.Issues) > 0 {
		result = append(result, render.WithIssues(report.Issues...))
	}
	return result
}

// layoutHash computes the content hash of a document's canonical bytes.
// Marshal is deterministic, so equal documents share cache entries.
func layoutHash(l *layout.Layout) string {
	data, err := layout.Marshal(l)
	if err != nil {
		// An invalid in-memory layout cannot share cache entries; key it
		// by its Go representation instead.
		return cache.Hash([]byte(fmt.Sprintf("%#v", l)))
	}
	return cache.Hash(data)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
