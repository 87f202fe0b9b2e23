package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/evidentia/internal/httputil"
	"github.com/ppiankov/evidentia/internal/worker"
)

// HTTPOptions are shared by every HTTP backend
type HTTPOptions struct {
	Client     *http.Client
	UserAgent  string
	Mailto     string
	Limiter    *worker.Limiter
	MaxRetries int
}

// get performs a rate-limited GET with 429 retries and rejects non-200 responses.
// The caller closes the body.
func (o HTTPOptions) get(ctx context.Context, rawURL, accept string, extra http.Header) (*http.Response, error) {
	if err := o.Limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if o.UserAgent != "" {
		req.Header.Set("User-Agent", o.UserAgent)
	}
	req.Header.Set("Accept", accept)
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, o.MaxRetries)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return resp, nil
}

// plainText strips markup (CrossRef abstracts carry JATS tags) and collapses whitespace
func plainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.Join(strings.Fields(s), " ")
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
			b.WriteByte(' ')
		}
	}
}

// joinAuthors keeps the first maxAuthors non-empty names
func joinAuthors(names []string) string {
	kept := make([]string, 0, maxAuthors)
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		kept = append(kept, n)
		if len(kept) == maxAuthors {
			break
		}
	}
	return strings.Join(kept, ", ")
}

func capResults(maxResults, ceiling int) int {
	if maxResults <= 0 || maxResults > ceiling {
		return ceiling
	}
	return maxResults
}
