package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/ppiankov/evidentia/internal/cache"
	"github.com/ppiankov/evidentia/internal/httputil"
	"github.com/ppiankov/evidentia/internal/metrics"
	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/narrate"
	"github.com/ppiankov/evidentia/internal/source"
	"github.com/ppiankov/evidentia/internal/worker"
)

// Build wires a Verifier over the live evidence sources named in cfg.
// store may be nil to disable caching; m may be nil to disable metrics.
func Build(cfg *model.Config, store cache.Cache, m *metrics.Metrics, logger *slog.Logger) (*Verifier, error) {
	if logger == nil {
		logger = slog.Default()
	}

	httpOpts := source.HTTPOptions{
		Client:  httputil.NewClient(cfg.HTTP.Timeout, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy),
		Limiter: worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
	}
	backends, err := source.NewBackends(cfg, httpOpts)
	if err != nil {
		return nil, fmt.Errorf("evidence sources: %w", err)
	}

	loader := cache.NewLoader(store, logger)
	loader.OnLookup(m.CacheHit, m.CacheMiss)

	fanout := source.NewFanout(source.Guarded(backends, source.GuardOptions{
		Loader:      loader,
		Logger:      logger,
		Metrics:     m,
		CallTimeout: cfg.Search.CallTimeout,
	}), cfg.Search.Concurrency, logger)

	contradictions := fanout.Subset(cfg.Search.ContradictionSources)
	if len(contradictions.Names()) == 0 {
		logger.Warn("no configured contradiction source is enabled, using all sources",
			"contradiction_sources", cfg.Search.ContradictionSources)
		contradictions = fanout
	}

	narrator, err := narrate.New(narrate.ConfigFromModel(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("narrator: %w", err)
	}

	return NewVerifier(fanout, Options{
		MaxResults:         cfg.Search.MaxResultsPerSource,
		ClaimDeadline:      cfg.Search.ClaimDeadline,
		RelevanceThreshold: cfg.Search.RelevanceThreshold,
		Contradictions:     contradictions,
		Narrator:           narrator,
		Metrics:            m,
		Logger:             logger,
	}), nil
}
