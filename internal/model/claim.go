package model

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyClaim is returned when a claim has no text to verify
var ErrEmptyClaim = errors.New("claim text is empty")

var (
	leadingQuestionWord = regexp.MustCompile(`^(does|do|is|are|can|will|should|how|what|why|when|where)\s+`)
	nonWordChars        = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// Claim represents one atomic factual assertion to verify
type Claim struct {
	Original   string `json:"original_claim"`   // Text as supplied by the extractor
	Normalized string `json:"normalized_claim"` // Lower-cased, interrogative and punctuation stripped
}

// NewClaim builds a claim from raw text, deriving its normalized form
func NewClaim(text string) (Claim, error) {
	original := strings.TrimSpace(text)
	if original == "" {
		return Claim{}, ErrEmptyClaim
	}
	return Claim{
		Original:   original,
		Normalized: NormalizeClaim(original),
	}, nil
}

// NormalizeClaim lower-cases text, drops one leading question word and strips punctuation
func NormalizeClaim(text string) string {
	normalized := leadingQuestionWord.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "")
	normalized = nonWordChars.ReplaceAllString(normalized, "")
	return strings.TrimSpace(normalized)
}
