package narrate

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

const systemPrompt = "You explain claim verification results with strict adherence to the evidence provided. Never cite anything outside the allowed list."

// Provider is a text-completion backend
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete returns the model's answer to prompt
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// LLM narrates with a language model and falls back to the template
// narrator when the model fails or cites a link outside the evidence.
type LLM struct {
	provider Provider
	fallback *Template
	logger   *slog.Logger
}

// NewLLM wraps provider as a narrator
func NewLLM(provider Provider, logger *slog.Logger) *LLM {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLM{
		provider: provider,
		fallback: NewTemplate(),
		logger:   logger,
	}
}

// Name returns the provider name
func (n *LLM) Name() string {
	return n.provider.Name()
}

// Narrate asks the provider for the explanation. Corrections always come from the template.
func (n *LLM) Narrate(ctx context.Context, res *model.VerificationResult) (Narration, error) {
	out, _ := n.fallback.Narrate(ctx, res)

	allowed := evidenceURLs(res)
	text, err := n.provider.Complete(ctx, systemPrompt, BuildPrompt(res, allowed))
	if err == nil {
		err = checkCitations(text, allowed)
	}
	if err != nil {
		n.logger.Warn("narrator failed, using template", "provider", n.provider.Name(), "error", err)
		return out, nil
	}

	out.Explanation = text
	return out, nil
}

// BuildPrompt constructs the explanation prompt with an allowlist of citable links
func BuildPrompt(res *model.VerificationResult, allowed []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are explaining the verification of a factual claim. The verdict is already decided; do not change it.

RULES:
1. You MUST ONLY cite URLs from this allowed list:%s
2. Do not speculate or mention sources beyond the evidence below.
3. If evidence is weak or missing, say so explicitly.

Claim: %s
Classification: %s
Confidence score: %d/100
Replication status: %s
Contradicting sources: %d

Drivers:
`, joinURLs(allowed), res.OriginalClaim, res.Classification, res.ConfidenceScore, res.ReplicationStatus, len(res.Contradictions))

	for _, d := range res.Drivers {
		fmt.Fprintf(&b, "- %s\n", d)
	}

	if len(res.TopEvidence) > 0 {
		b.WriteString("\nEvidence:\n")
		for _, r := range res.TopEvidence {
			fmt.Fprintf(&b, "- [%s] %s (%s, %s) %s\n", r.Type, r.Title, r.Venue, r.PublicationDate, r.Link)
		}
	}

	b.WriteString("\nWrite 2-4 sentences explaining why the evidence leads to this classification.")
	return b.String()
}

var urlPattern = regexp.MustCompile(`https?://[^\s\)\]]+`)

// extractURLs returns the unique links in text
func extractURLs(text string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, u := range urlPattern.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,;:!?")
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}
	return unique
}

func checkCitations(text string, allowed []string) error {
	permitted := make(map[string]bool, len(allowed))
	for _, u := range allowed {
		permitted[u] = true
	}
	for _, u := range extractURLs(text) {
		if !permitted[u] {
			return fmt.Errorf("cited disallowed URL: %s", u)
		}
	}
	return nil
}

func evidenceURLs(res *model.VerificationResult) []string {
	var urls []string
	for _, r := range res.TopEvidence {
		if strings.HasPrefix(r.Link, "http") {
			urls = append(urls, r.Link)
		}
	}
	return urls
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "\n(No evidence URLs available)"
	}
	var b strings.Builder
	for _, u := range urls {
		b.WriteString("\n- " + u)
	}
	return b.String()
}
