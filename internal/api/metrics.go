package api

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/planstack/floorplan/pkg/observability"
)

// promHooks exports pipeline, cache and HTTP events as Prometheus metrics.
type promHooks struct {
	stageRuns     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	cacheEvents   *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

func newPromHooks() *promHooks {
	h := &promHooks{
		stageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "floorplan_stage_runs_total",
			Help: "Pipeline stage executions by stage and outcome.",
		}, []string{"stage", "outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "floorplan_stage_duration_seconds",
			Help:    "Pipeline stage duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "floorplan_cache_events_total",
			Help: "Cache hits, misses and writes by key type.",
		}, []string{"key_type", "event"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "floorplan_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "path", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "floorplan_http_request_duration_seconds",
			Help:    "HTTP request duration by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	prometheus.MustRegister(
		h.stageRuns,
		h.stageDuration,
		h.cacheEvents,
		h.httpRequests,
		h.httpDuration,
	)
	return h
}

func (h *promHooks) stageComplete(stage string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	h.stageRuns.WithLabelValues(stage, outcome).Inc()
	h.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// PlannerHooks

func (h *promHooks) OnLoadStart(context.Context, string) {}
func (h *promHooks) OnLoadComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	h.stageComplete("load", d, err)
}
func (h *promHooks) OnCheckStart(context.Context, string) {}
func (h *promHooks) OnCheckComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	h.stageComplete("check", d, err)
}
func (h *promHooks) OnRouteStart(context.Context, string) {}
func (h *promHooks) OnRouteComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	h.stageComplete("route", d, err)
}
func (h *promHooks) OnRenderStart(context.Context, []string) {}
func (h *promHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	h.stageComplete("render", d, err)
}

// CacheHooks

func (h *promHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}
func (h *promHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}
func (h *promHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
}

// HTTPHooks

func (h *promHooks) OnRequest(context.Context, string, string) {}
func (h *promHooks) OnResponse(_ context.Context, method, path string, statusCode int, duration time.Duration) {
	h.httpRequests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	h.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
func (h *promHooks) OnError(context.Context, string, string, error) {}

var (
	_ observability.PlannerHooks = (*promHooks)(nil)
	_ observability.CacheHooks   = (*promHooks)(nil)
	_ observability.HTTPHooks    = (*promHooks)(nil)
)

var metricsOnce sync.Once

// registerMetricsHooks installs the Prometheus hook implementations.
// MustRegister panics on duplicate registration, so this runs once per
// process no matter how many servers start.
func registerMetricsHooks() {
	metricsOnce.Do(func() {
		h := newPromHooks()
		observability.SetPlannerHooks(h)
		observability.SetCacheHooks(h)
		observability.SetHTTPHooks(h)
	})
}
