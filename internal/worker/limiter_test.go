package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// admitsNow reports whether a request to url may proceed without waiting
func admitsNow(l *Limiter, url string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	return l.Wait(ctx, url) == nil
}

func TestLimiter_New(t *testing.T) {
	assert.Equal(t, 5, NewLimiter(10, 5).defaultBurst)
	assert.Equal(t, 5, NewLimiter(10, -1).defaultBurst, "negative burst falls back to default")
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, "https://api.crossref.org/works?query=x"))
	require.NoError(t, limiter.Wait(ctx, "https://export.arxiv.org/api/query"))
}

func TestLimiter_PerHostBudget(t *testing.T) {
	limiter := NewLimiter(1, 1)

	require.NoError(t, limiter.Wait(context.Background(), "https://api.crossref.org/works"))
	assert.False(t, admitsNow(limiter, "https://api.crossref.org/works"), "token already spent")
	assert.True(t, admitsNow(limiter, "https://www.ebi.ac.uk/europepmc"), "other host has its own budget")
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	limiter.SetHostRate("export.arxiv.org", 0.1, 1)

	assert.True(t, admitsNow(limiter, "https://export.arxiv.org/api/query"))
	assert.False(t, admitsNow(limiter, "https://export.arxiv.org/api/query"))
	assert.True(t, admitsNow(limiter, "https://api.openalex.org/works"))
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	url := "https://api.crossref.org/works"
	require.NoError(t, limiter.Wait(context.Background(), url))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Wait(ctx, url))
}

func TestLimiter_DisabledAndNil(t *testing.T) {
	unlimited := NewLimiter(0, 1)
	for i := 0; i < 50; i++ {
		require.True(t, admitsNow(unlimited, "https://api.crossref.org/works"))
	}

	var nilLimiter *Limiter
	assert.NoError(t, nilLimiter.Wait(context.Background(), "https://api.crossref.org"))
	assert.True(t, admitsNow(nilLimiter, "https://api.crossref.org"))
}

func TestExtractHost(t *testing.T) {
	host, err := extractHost("https://api.crossref.org/works?rows=5")
	require.NoError(t, err)
	assert.Equal(t, "api.crossref.org", host)

	_, err = extractHost("::invalid")
	assert.Error(t, err)
}
