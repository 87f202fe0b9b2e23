package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/ppiankov/evidentia/internal/cache"
	"github.com/ppiankov/evidentia/internal/metrics"
	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/pipeline"
)

// session holds everything a verifying command needs and releases it on Close
type session struct {
	cfg      *model.Config
	verifier *pipeline.Verifier
	registry *prometheus.Registry
	store    cache.Cache
	closer   io.Closer
}

func newSession(cfg *model.Config) (*session, error) {
	logger := slog.Default()

	store, closer, err := openCache(cfg.Cache)
	if err != nil {
		// a broken cache degrades to no caching
		logger.Warn("cache unavailable, continuing without it", "path", cfg.Cache.Path, "error", err)
		store, closer = nil, nil
	}

	reg := prometheus.NewRegistry()
	verifier, err := pipeline.Build(cfg, store, metrics.New(reg), logger)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	return &session{cfg: cfg, verifier: verifier, registry: reg, store: store, closer: closer}, nil
}

// Close releases the persistent cache
func (s *session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// dumpMetrics writes every collected metric in Prometheus text format
func (s *session) dumpMetrics(w io.Writer) error {
	families, err := s.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// openCache returns nil when caching is disabled, a memory cache when no
// path is configured, and a memory layer over SQLite otherwise
func openCache(cfg model.CacheConfig) (cache.Cache, io.Closer, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}
	if cfg.Path == "" {
		return cache.NewMemoryCache(), nil, nil
	}

	path := expandHome(cfg.Path)
	sqlite, err := cache.OpenSQLiteCache(path)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewLayeredCache(sqlite), sqlite, nil
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
