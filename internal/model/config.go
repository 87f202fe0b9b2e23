package model

import "time"

// Config holds every tunable of the verification pipeline and CLI
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Search       SearchConfig       `yaml:"search" mapstructure:"search"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// HTTPConfig is shared by all HTTP evidence backends
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`
	Mailto     string        `yaml:"mailto" mapstructure:"mailto"` // Polite-pool contact for CrossRef/OpenAlex
	MaxRetries int           `yaml:"max_retries" mapstructure:"max_retries"`

	// Proxy settings; empty values fall back to HTTP_PROXY/HTTPS_PROXY/NO_PROXY
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// SearchConfig controls query fan-out and ranking
type SearchConfig struct {
	Sources              []string      `yaml:"sources" mapstructure:"sources"`
	ContradictionSources []string      `yaml:"contradiction_sources" mapstructure:"contradiction_sources"` // Empty means all sources
	MaxResultsPerSource  int           `yaml:"max_results_per_source" mapstructure:"max_results_per_source"`
	CallTimeout          time.Duration `yaml:"call_timeout" mapstructure:"call_timeout"`
	ClaimDeadline        time.Duration `yaml:"claim_deadline" mapstructure:"claim_deadline"`
	Concurrency          int           `yaml:"concurrency" mapstructure:"concurrency"`
	RelevanceThreshold   float64       `yaml:"relevance_threshold" mapstructure:"relevance_threshold"`
	SemanticScholarKey   string        `yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`
}

// RateLimitingConfig bounds request rate per upstream host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig selects cache layers
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"` // SQLite file for the persistent layer; empty keeps memory only
}

// LLMConfig configures the optional explanation narrator
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "" (template), "openai", "ollama" or "anthropic"
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"` // OpenAI-compatible endpoint, e.g. Ollama's /v1
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"`             // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig controls CLI rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	Pretty  bool `yaml:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:    10 * time.Second,
			UserAgent:  "Evidentia/0.1 (+https://github.com/ppiankov/evidentia)",
			MaxRetries: 2,
		},
		Search: SearchConfig{
			Sources:              []string{"crossref", "europepmc", "arxiv"},
			ContradictionSources: []string{"crossref"},
			MaxResultsPerSource:  5,
			CallTimeout:          10 * time.Second,
			ClaimDeadline:        45 * time.Second,
			Concurrency:          8,
			RelevanceThreshold:   0.25,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 600,
		},
		Output: OutputConfig{
			Pretty: true,
		},
	}
}
