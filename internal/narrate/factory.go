package narrate

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/evidentia/internal/httputil"
	"github.com/ppiankov/evidentia/internal/model"
)

// Config holds narrator provider settings
type Config struct {
	Provider  string // "", "template", "openai", "ollama", "anthropic"
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   int // seconds
	MaxTokens int

	HTTPProxy  string
	HTTPSProxy string
}

// ConfigFromModel converts the application config to a narrator config
func ConfigFromModel(cfg *model.Config) Config {
	return Config{
		Provider:   cfg.LLM.Provider,
		Model:      cfg.LLM.Model,
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Timeout:    cfg.LLM.Timeout,
		MaxTokens:  cfg.LLM.MaxTokens,
		HTTPProxy:  cfg.HTTP.HTTPProxy,
		HTTPSProxy: cfg.HTTP.HTTPSProxy,
	}
}

// New creates the narrator selected by config
func New(config Config, logger *slog.Logger) (Narrator, error) {
	var (
		provider Provider
		err      error
	)

	switch strings.ToLower(config.Provider) {
	case "", "template":
		return NewTemplate(), nil
	case "openai":
		provider, err = NewOpenAIProvider(config)
	case "ollama":
		provider, err = NewOllamaProvider(config)
	case "anthropic", "claude":
		provider, err = NewAnthropicProvider(config)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama, anthropic)", config.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewLLM(provider, logger), nil
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

func (c Config) maxTokens() int {
	if c.MaxTokens <= 0 {
		return 600
	}
	return c.MaxTokens
}

func (c Config) httpClient() *http.Client {
	return httputil.NewClient(c.timeout(), c.HTTPProxy, c.HTTPSProxy)
}
