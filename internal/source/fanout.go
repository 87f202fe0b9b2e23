package source

import (
	"context"
	"log/slog"

	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/worker"
)

// Fanout issues every query to every source on a bounded pool
type Fanout struct {
	sources []Source
	pool    *worker.Pool
	logger  *slog.Logger
}

// NewFanout creates a fan-out over sources with at most concurrency calls in flight
func NewFanout(sources []Source, concurrency int, logger *slog.Logger) *Fanout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fanout{
		sources: sources,
		pool:    worker.NewPool(concurrency),
		logger:  logger,
	}
}

// Names lists the sources in call order
func (f *Fanout) Names() []string {
	names := make([]string, len(f.sources))
	for i, s := range f.sources {
		names[i] = s.Name()
	}
	return names
}

// Subset returns a fan-out restricted to the named sources. It shares f's pool, so
// calls made through either count against the same concurrency bound.
// An empty list selects every source.
func (f *Fanout) Subset(names []string) *Fanout {
	if len(names) == 0 {
		return f
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var picked []Source
	for _, s := range f.sources {
		if want[s.Name()] {
			picked = append(picked, s)
		}
	}
	return &Fanout{sources: picked, pool: f.pool, logger: f.logger}
}

// SearchAll returns the flattened results of every (query, source) call, ordered
// by query then source. Calls still running when ctx ends contribute nothing.
func (f *Fanout) SearchAll(ctx context.Context, queries []string, maxResults int) []model.EvidenceRecord {
	records, _ := f.Lookup(ctx, queries, maxResults)
	return records
}

// Lookup is SearchAll that also counts the calls whose source answered.
// Sources that cannot tell failure from an empty result always count as answered.
func (f *Fanout) Lookup(ctx context.Context, queries []string, maxResults int) (records []model.EvidenceRecord, answered int) {
	jobs := make([]worker.Job, 0, len(queries)*len(f.sources))
	for _, q := range queries {
		for _, s := range f.sources {
			jobs = append(jobs, &searchJob{source: s, query: q, maxResults: maxResults})
		}
	}
	if len(jobs) == 0 {
		return nil, 0
	}

	results := f.pool.Run(ctx, jobs)
	if len(results) < len(jobs) {
		f.logger.Warn("search deadline reached with partial results",
			"completed", len(results), "issued", len(jobs))
	}

	for _, r := range results {
		sr := r.(*searchResult)
		records = append(records, sr.records...)
		if sr.answered {
			answered++
		}
	}
	return records, answered
}

// lookupSource is a Source that distinguishes failure from an empty answer
type lookupSource interface {
	Lookup(ctx context.Context, query string, maxResults int) ([]model.EvidenceRecord, bool)
}

type searchJob struct {
	source     Source
	query      string
	maxResults int
}

func (j *searchJob) Execute(ctx context.Context) worker.Result {
	if ls, ok := j.source.(lookupSource); ok {
		records, answered := ls.Lookup(ctx, j.query, j.maxResults)
		return &searchResult{records: records, answered: answered}
	}
	return &searchResult{records: j.source.Search(ctx, j.query, j.maxResults), answered: true}
}

type searchResult struct {
	records  []model.EvidenceRecord
	answered bool
}

// GetError is always nil; sources report failure as an empty result
func (r *searchResult) GetError() error { return nil }
