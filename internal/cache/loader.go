package cache

import (
	"context"
	"encoding/json"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Loader reads JSON values through a cache and collapses concurrent builds of the same key
type Loader struct {
	cache  Cache
	group  singleflight.Group
	logger *slog.Logger
	onHit  func()
	onMiss func()
}

// NewLoader wraps c; a nil cache degrades to always-miss
func NewLoader(c Cache, logger *slog.Logger) *Loader {
	if c == nil {
		c = Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{cache: c, logger: logger}
}

// OnLookup registers hit/miss observers (used for metrics)
func (l *Loader) OnLookup(hit, miss func()) {
	l.onHit, l.onMiss = hit, miss
}

// Load returns the cached value for key, or calls build, caches its result and returns it.
// When build reports ok=false the value is returned but not cached. ok is true for
// cache hits and successful builds, including builds shared with a concurrent caller.
func Load[T any](ctx context.Context, l *Loader, key string, build func(context.Context) (T, bool)) (value T, ok bool) {
	if raw, found := l.cache.Get(key); found {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			l.observe(true)
			return v, true
		}
	}
	l.observe(false)

	shared, _, _ := l.group.Do(key, func() (interface{}, error) {
		v, ok := build(ctx)
		if ok {
			l.store(key, v)
		}
		return built[T]{value: v, ok: ok}, nil
	})
	b := shared.(built[T])
	return b.value, b.ok
}

type built[T any] struct {
	value T
	ok    bool
}

func (l *Loader) store(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		l.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := l.cache.Set(key, raw); err != nil {
		l.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func (l *Loader) observe(hit bool) {
	switch {
	case hit && l.onHit != nil:
		l.onHit()
	case !hit && l.onMiss != nil:
		l.onMiss()
	}
}
