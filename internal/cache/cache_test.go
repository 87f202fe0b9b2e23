package cache

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_StableAndDistinct(t *testing.T) {
	a := Key("search:crossref", "exercise", "5")
	b := Key("search:crossref", "  exercise ", "5")
	assert.Equal(t, a, b, "surrounding whitespace must not change the key")
	assert.True(t, strings.HasPrefix(a, keyPrefix))

	assert.NotEqual(t, a, Key("search:crossref", "exercise", "10"))
	assert.NotEqual(t, a, Key("search:arxiv", "exercise", "5"))
	// Parameter boundaries are part of the hash
	assert.NotEqual(t, Key("k", "ab", "c"), Key("k", "a", "bc"))
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	_, found := c.Get("missing")
	assert.False(t, found)

	require.NoError(t, c.Set("k", []byte("v")))
	got, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Clear())
	_, found = c.Get("k")
	assert.False(t, found)
}

func TestSQLiteCache_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")

	c, err := OpenSQLiteCache(path)
	require.NoError(t, err)
	require.NoError(t, c.Set("k", []byte("first")))
	require.NoError(t, c.Set("k", []byte("second")))
	require.NoError(t, c.Close())

	reopened, err := OpenSQLiteCache(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, found := reopened.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte("second"), got)

	require.NoError(t, reopened.Clear())
	_, found = reopened.Get("k")
	assert.False(t, found)
}

func TestLayeredCache_PromotesFromStore(t *testing.T) {
	store := NewMemoryCache()
	require.NoError(t, store.Set("k", []byte("v")))

	layered := NewLayeredCache(store)
	got, found := layered.Get("k")
	require.True(t, found)
	assert.Equal(t, []byte("v"), got)

	// Promoted copy survives a store wipe
	require.NoError(t, store.Clear())
	_, found = layered.Get("k")
	assert.True(t, found)
}

func TestNop_AlwaysMisses(t *testing.T) {
	var c Cache = Nop{}
	require.NoError(t, c.Set("k", []byte("v")))
	_, found := c.Get("k")
	assert.False(t, found)
}

func TestLoad_CachesOnlyOkValues(t *testing.T) {
	loader := NewLoader(NewMemoryCache(), nil)
	var hits, misses int32
	loader.OnLookup(func() { atomic.AddInt32(&hits, 1) }, func() { atomic.AddInt32(&misses, 1) })

	calls := 0
	build := func(ok bool) func(context.Context) ([]string, bool) {
		return func(context.Context) ([]string, bool) {
			calls++
			return []string{"a", "b"}, ok
		}
	}

	got, ok := Load(context.Background(), loader, "failed", build(false))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.False(t, ok)
	Load(context.Background(), loader, "failed", build(false))
	assert.Equal(t, 2, calls, "non-ok results must not be cached")

	_, ok = Load(context.Background(), loader, "ok", build(true))
	assert.True(t, ok)
	got, ok = Load(context.Background(), loader, "ok", build(true))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.True(t, ok, "cache hits count as answered")
	assert.Equal(t, 3, calls)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, int32(3), atomic.LoadInt32(&misses))
}

func TestLoad_NilCacheDegradesToMiss(t *testing.T) {
	loader := NewLoader(nil, nil)
	calls := 0
	for i := 0; i < 2; i++ {
		Load(context.Background(), loader, "k", func(context.Context) (int, bool) {
			calls++
			return 7, true
		})
	}
	assert.Equal(t, 2, calls)
}

func TestLoad_CollapsesConcurrentBuilds(t *testing.T) {
	loader := NewLoader(NewMemoryCache(), nil)
	var builds int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, ok := Load(context.Background(), loader, "shared", func(context.Context) (int, bool) {
				atomic.AddInt32(&builds, 1)
				<-release
				return 42, true
			})
			assert.Equal(t, 42, v)
			assert.True(t, ok)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&builds), int32(8))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&builds), int32(1))
}
