// Package fabrication flags technical terms that have no literature footprint.
package fabrication

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/evidentia/internal/model"
)

// Lookup limits
const (
	ExactResults       = 5
	FuzzyResults       = 3
	MaxFuzzyVariants   = 10
	FuzzyVariantsTried = 3
	termConcurrency    = 4
	highConfidenceLen  = 5
)

var (
	termPattern  = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])(\p{Lu}\p{L}*(?:-\p{Lu}\p{L}*)*)`)
	punctPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// commonWords are capitalized words that are never technical terms
var commonWords = map[string]bool{
	"The": true, "This": true, "That": true, "These": true, "Those": true,
	"A": true, "An": true, "And": true, "Or": true, "But": true,
	"In": true, "On": true, "At": true, "To": true, "For": true, "Of": true, "With": true, "By": true,
	"I": true, "It": true, "Is": true, "Are": true, "Do": true, "Does": true, "Can": true,
	"Will": true, "Should": true, "What": true, "Why": true, "How": true, "When": true,
	"Where": true, "Who": true, "Which": true,
}

// Searcher issues queries to every evidence source and returns all hits, plus
// the number of (query, source) calls that got an answer
type Searcher interface {
	Lookup(ctx context.Context, queries []string, maxResults int) ([]model.EvidenceRecord, int)
}

// Detector checks candidate terms against the literature
type Detector struct {
	searcher Searcher
	logger   *slog.Logger
}

// NewDetector creates a detector backed by searcher
func NewDetector(searcher Searcher, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{searcher: searcher, logger: logger}
}

// Detect returns a finding for every candidate term with zero exact and zero
// fuzzy hits, in order of appearance
func (d *Detector) Detect(ctx context.Context, text string) []model.FabricationFinding {
	terms := CandidateTerms(text)
	if len(terms) == 0 {
		return nil
	}

	checked := make([]model.FabricationFinding, len(terms))
	answered := make([]bool, len(terms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(termConcurrency)
	for i, term := range terms {
		g.Go(func() error {
			checked[i], answered[i] = d.Check(gctx, term)
			return nil
		})
	}
	_ = g.Wait()

	var findings []model.FabricationFinding
	for i, f := range checked {
		if !answered[i] {
			d.logger.Warn("no evidence source answered, term not judged", "term", f.Term)
			continue
		}
		if f.ExactHitCount == 0 && f.FuzzyHitCount == 0 {
			d.logger.Debug("term has no literature footprint", "term", f.Term)
			findings = append(findings, f)
		}
	}
	return findings
}

// Check counts exact hits for term and, when there are none, fuzzy hits for
// its first vowel-substitution variants. answered is false when no source
// responded to any of the term's lookups.
func (d *Detector) Check(ctx context.Context, term string) (finding model.FabricationFinding, answered bool) {
	normalized := NormalizeTerm(term)
	finding = model.FabricationFinding{
		Term:           term,
		NormalizedTerm: normalized,
		Confidence:     model.FindingMedium,
	}
	if utf8.RuneCountInString(term) > highConfidenceLen {
		finding.Confidence = model.FindingHigh
	}

	exact, n := d.searcher.Lookup(ctx, []string{quote(normalized)}, ExactResults)
	finding.ExactHitCount = len(exact)
	if finding.ExactHitCount > 0 {
		return finding, true
	}
	answered = n > 0

	variants := FuzzyVariants(normalized)
	if len(variants) > FuzzyVariantsTried {
		variants = variants[:FuzzyVariantsTried]
	}
	queries := make([]string, len(variants))
	for i, v := range variants {
		queries[i] = quote(v)
	}
	if len(queries) > 0 {
		fuzzy, n := d.searcher.Lookup(ctx, queries, FuzzyResults)
		finding.FuzzyHitCount = len(fuzzy)
		answered = answered || n > 0
	}
	return finding, answered
}

// CandidateTerms extracts distinct capitalized or hyphen-joined capitalized tokens
func CandidateTerms(text string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, m := range termPattern.FindAllStringSubmatchIndex(text, -1) {
		t, rest := text[m[2]:m[3]], text[m[3]:]
		if rest != "" && (rest[0] == '_' || rest[0] >= '0' && rest[0] <= '9') {
			continue
		}
		if commonWords[t] || seen[t] {
			continue
		}
		seen[t] = true
		terms = append(terms, t)
	}
	return terms
}

// NormalizeTerm lower-cases a term and strips punctuation
func NormalizeTerm(term string) string {
	return punctPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(term)), "")
}

// FuzzyVariants returns up to MaxFuzzyVariants single-vowel substitutions of term,
// position by position
func FuzzyVariants(term string) []string {
	runes := []rune(term)
	var out []string
	for i := range runes {
		for _, v := range "aeiou" {
			if runes[i] == v {
				continue
			}
			variant := make([]rune, len(runes))
			copy(variant, runes)
			variant[i] = v
			out = append(out, string(variant))
			if len(out) == MaxFuzzyVariants {
				return out
			}
		}
	}
	return out
}

func quote(s string) string {
	return `"` + s + `"`
}
