package source

import (
	"fmt"
	"net/url"

	"github.com/ppiankov/evidentia/internal/model"
)

// arXiv asks clients for no more than one request every three seconds
const arxivRequestsPerSecond = 1.0 / 3

// NewBackends builds the backends named in cfg.Search.Sources, in order
func NewBackends(cfg *model.Config, opts HTTPOptions) ([]Backend, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = cfg.HTTP.UserAgent
	}
	if opts.Mailto == "" {
		opts.Mailto = cfg.HTTP.Mailto
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = cfg.HTTP.MaxRetries
	}

	var backends []Backend
	seen := make(map[string]bool)
	for _, name := range cfg.Search.Sources {
		if seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case NameCrossRef:
			backends = append(backends, &CrossRefBackend{HTTP: opts})
		case NameEuropePMC:
			backends = append(backends, &EuropePMCBackend{HTTP: opts})
		case NameArxiv:
			if u, err := url.Parse(arxivAPIBase); err == nil {
				opts.Limiter.SetHostRate(u.Host, arxivRequestsPerSecond, 1)
			}
			backends = append(backends, &ArxivBackend{HTTP: opts})
		case NameOpenAlex:
			backends = append(backends, &OpenAlexBackend{HTTP: opts})
		case NameSemanticScholar:
			backends = append(backends, &SemanticScholarBackend{HTTP: opts, APIKey: cfg.Search.SemanticScholarKey})
		default:
			return nil, fmt.Errorf("unknown evidence source %q", name)
		}
	}
	if len(backends) == 0 {
		return nil, fmt.Errorf("no evidence sources configured")
	}
	return backends, nil
}

// Guarded wraps each backend in a Guard sharing opts
func Guarded(backends []Backend, opts GuardOptions) []Source {
	sources := make([]Source, len(backends))
	for i, b := range backends {
		sources[i] = NewGuard(b, opts)
	}
	return sources
}
