// Package api serves the layout catalog and planning pipeline over HTTP.
//
// The server exposes a JSON API under /api/v1 plus /healthz and /metrics.
// Layouts live in a Store (MongoDB when configured, a plain directory of
// JSON documents otherwise) and pipeline results are cached (Redis when
// configured, local files otherwise), so several replicas behind a load
// balancer share both catalog and cache.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/planstack/floorplan/pkg/cache"
	"github.com/planstack/floorplan/pkg/pipeline"
	"github.com/planstack/floorplan/pkg/rules"
	"github.com/planstack/floorplan/pkg/store"
)

// shutdownTimeout bounds the drain of in-flight requests on shutdown.
const shutdownTimeout = 15 * time.Second

// Config holds server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// DataDir is the layout directory for the file store. Ignored when
	// MongoURI is set.
	DataDir string

	// MongoURI selects the MongoDB store when non-empty.
	MongoURI string

	// RedisAddr selects the Redis cache when non-empty.
	RedisAddr string

	// RulesPath names a ruleset TOML file. Empty means built-in defaults.
	RulesPath string
}

// ConfigFromEnv builds a Config from FLOORPLAN_* environment variables.
// A .env file in the working directory is loaded first when present.
func ConfigFromEnv() Config {
	_ = godotenv.Load()

	cfg := Config{Addr: ":8080"}
	if v := os.Getenv("FLOORPLAN_ADDR"); v != "" {
		cfg.Addr = v
	}
	cfg.DataDir = os.Getenv("FLOORPLAN_DATA_DIR")
	cfg.MongoURI = os.Getenv("FLOORPLAN_MONGO_URI")
	cfg.RedisAddr = os.Getenv("FLOORPLAN_REDIS_ADDR")
	cfg.RulesPath = os.Getenv("FLOORPLAN_RULES")
	return cfg
}

// Server is the floorplan HTTP server.
type Server struct {
	cfg    Config
	logger *log.Logger
	store  store.Store
	runner *pipeline.Runner
	rules  rules.Ruleset
}

// New creates a server, connecting to the configured store and cache
// backends. The caller owns shutdown via Run's context.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}

	rs := rules.Default()
	if cfg.RulesPath != "" {
		loaded, err := rules.Load(cfg.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("load ruleset: %w", err)
		}
		rs = loaded
	}

	st, err := newStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	c, err := newCache(ctx, cfg, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	return &Server{
		cfg:    cfg,
		logger: logger,
		store:  st,
		runner: pipeline.NewRunner(c, nil, logger),
		rules:  rs,
	}, nil
}

func newStore(ctx context.Context, cfg Config, logger *log.Logger) (store.Store, error) {
	if cfg.MongoURI != "" {
		logger.Info("using mongodb store", "uri", cfg.MongoURI)
		return store.NewMongoStore(ctx, cfg.MongoURI, "floorplan")
	}
	logger.Info("using file store", "dir", cfg.DataDir)
	return store.NewFileStore(cfg.DataDir)
}

func newCache(ctx context.Context, cfg Config, logger *log.Logger) (cache.Cache, error) {
	if cfg.RedisAddr != "" {
		logger.Info("using redis cache", "addr", cfg.RedisAddr)
		return cache.NewRedisCache(ctx, cfg.RedisAddr, "", 0)
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		logger.Warn("no cache dir available, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	dir = filepath.Join(dir, "floorplan", "server")
	logger.Info("using file cache", "dir", dir)
	return cache.NewFileCache(dir)
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/types", s.handleTypes)
		r.Get("/rules", s.handleRules)
		r.Post("/validate", s.handleValidateDocument)

		r.Route("/layouts", func(r chi.Router) {
			r.Get("/", s.handleListLayouts)
			r.Post("/", s.handleCreateLayout)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetLayout)
				r.Put("/", s.handlePutLayout)
				r.Delete("/", s.handleDeleteLayout)
				r.Post("/validate", s.handleValidateLayout)
				r.Get("/route", s.handleRouteLayout)
				r.Get("/render", s.handleRenderLayout)
			})
		})
	})

	return r
}

// Run serves HTTP until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	registerMetricsHooks()

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the store and cache connections.
func (s *Server) Close() error {
	storeErr := s.store.Close()
	runnerErr := s.runner.Close()
	if storeErr != nil {
		return storeErr
	}
	return runnerErr
}
