package source

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ppiankov/evidentia/internal/cache"
	"github.com/ppiankov/evidentia/internal/metrics"
	"github.com/ppiankov/evidentia/internal/model"
)

// GuardOptions configures a Guard. Zero values are usable.
type GuardOptions struct {
	Loader      *cache.Loader // nil disables caching
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	CallTimeout time.Duration // zero means no per-call bound beyond ctx
}

// Guard turns a Backend into a Source that never fails.
// Successful responses, including empty ones, are cached; failures are not.
type Guard struct {
	backend Backend
	opts    GuardOptions
}

// NewGuard wraps backend
func NewGuard(backend Backend, opts GuardOptions) *Guard {
	if opts.Loader == nil {
		opts.Loader = cache.NewLoader(nil, opts.Logger)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Guard{backend: backend, opts: opts}
}

func (g *Guard) Name() string { return g.backend.Name() }

// Search returns the backend's records for query, or an empty slice on failure
func (g *Guard) Search(ctx context.Context, query string, maxResults int) []model.EvidenceRecord {
	records, _ := g.Lookup(ctx, query, maxResults)
	return records
}

// Lookup is Search that also reports whether the backend answered (possibly
// with no records) rather than failing
func (g *Guard) Lookup(ctx context.Context, query string, maxResults int) ([]model.EvidenceRecord, bool) {
	key := cache.Key("search:"+g.backend.Name(), query, strconv.Itoa(maxResults))

	records, answered := cache.Load(ctx, g.opts.Loader, key, func(ctx context.Context) ([]model.EvidenceRecord, bool) {
		records, err := g.fetch(ctx, query, maxResults)
		if err != nil {
			g.opts.Logger.Warn("evidence source failed",
				"source", g.backend.Name(), "query", query, "error", err)
			return nil, false
		}
		if records == nil {
			records = []model.EvidenceRecord{}
		}
		return records, true
	})
	if records == nil {
		records = []model.EvidenceRecord{}
	}
	return records, answered
}

func (g *Guard) fetch(ctx context.Context, query string, maxResults int) (records []model.EvidenceRecord, err error) {
	if g.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.CallTimeout)
		defer cancel()
	}

	start := time.Now()
	outcome := metrics.OutcomeOK
	defer func() {
		if p := recover(); p != nil {
			records, err = nil, fmt.Errorf("backend panic: %v", p)
			outcome = metrics.OutcomePanic
		}
		g.opts.Metrics.ObserveSearch(g.backend.Name(), outcome, time.Since(start))
	}()

	records, err = g.backend.Fetch(ctx, query, maxResults)
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case len(records) == 0:
		outcome = metrics.OutcomeEmpty
	}
	return records, err
}
