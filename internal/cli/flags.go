package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/evidentia/internal/model"
)

// Flags shared by the verifying commands
var (
	outputFormat  string
	noCache       bool
	sources       []string
	claimDeadline time.Duration
	llmProvider   string
	llmModel      string
	showMetrics   bool
)

func addVerifyFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, text)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh searches)")
	cmd.Flags().StringSliceVar(&sources, "sources", nil, "evidence sources (crossref, europepmc, arxiv, openalex, semanticscholar)")
	cmd.Flags().DurationVar(&claimDeadline, "deadline", 0, "per-claim search deadline (default from config)")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "explanation narrator (openai, ollama, anthropic)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print Prometheus metrics to stderr when done")
}

// applyVerifyFlags overlays explicitly set flags on cfg
func applyVerifyFlags(cmd *cobra.Command, cfg *model.Config) error {
	switch outputFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown output format %q (supported: json, text)", outputFormat)
	}

	flags := cmd.Flags()
	if noCache {
		cfg.Cache.Enabled = false
	}
	if flags.Changed("sources") {
		cfg.Search.Sources = sources
	}
	if flags.Changed("deadline") {
		cfg.Search.ClaimDeadline = claimDeadline
	}
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	return nil
}
