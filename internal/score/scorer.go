// Package score turns ranked evidence into a confidence score, colour,
// classification and replication status.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

// MaxDrivers is the number of driver lines kept
const MaxDrivers = 3

// highTrustVenues mark a peer-reviewed record as primary human evidence
var highTrustVenues = []string{
	"journal", "nature", "science", "cell", "lancet", "nejm", "plos", "bmj", "pubmed", "crossref",
}

// Weights configures the support and contradiction arithmetic
type Weights struct {
	HighTrust        int // per peer-reviewed record in a high-trust venue
	Standard         int // per other record
	PerContradiction int
	ContradictionCap int
}

// DefaultWeights returns the canonical two-bucket weighting
func DefaultWeights() Weights {
	return Weights{
		HighTrust:        30,
		Standard:         15,
		PerContradiction: 10,
		ContradictionCap: 40,
	}
}

// Score is the scorer's output
type Score struct {
	Value   int      // 0-100
	Drivers []string // at most MaxDrivers, in insertion order
}

// Scorer calculates the confidence score and its drivers
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the default weights
func NewScorer() *Scorer {
	return &Scorer{weights: DefaultWeights()}
}

// NewScorerWithWeights creates a scorer with custom weights
func NewScorerWithWeights(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Calculate scores evidence against contradictions
func (s *Scorer) Calculate(evidence []model.EvidenceRecord, contradictions []model.ContradictionRecord) Score {
	var drivers []string

	support := 0
	for _, r := range evidence {
		if IsHighTrust(r) {
			support += s.weights.HighTrust
			drivers = append(drivers, fmt.Sprintf("human peer-reviewed study found (doi: %s)", orNA(r.Identifier)))
			continue
		}
		support += s.weights.Standard
	}

	penalty := 0
	if n := len(contradictions); n > 0 {
		penalty = min(n*s.weights.PerContradiction, s.weights.ContradictionCap)
		drivers = append(drivers, fmt.Sprintf("contradicted by %d source(s)", n))
	}

	value := int(math.Round(math.Max(0, math.Min(100, float64(support-penalty)))))
	drivers = append(drivers, bandDriver(value, len(evidence) > 0))

	if len(drivers) > MaxDrivers {
		drivers = drivers[:MaxDrivers]
	}
	return Score{Value: value, Drivers: drivers}
}

// IsHighTrust reports whether r is peer-reviewed and published in a high-trust venue
func IsHighTrust(r model.EvidenceRecord) bool {
	if !r.IsPeerReviewed() {
		return false
	}
	venue := strings.ToLower(r.Venue)
	for _, kw := range highTrustVenues {
		if strings.Contains(venue, kw) {
			return true
		}
	}
	return false
}

// bandDriver describes the score band
func bandDriver(score int, hasEvidence bool) string {
	switch {
	case score == 0 && !hasEvidence:
		return "no credible evidence found"
	case score == 0:
		return "strong contradictions override supporting evidence"
	case score < 30:
		return "very weak or contradicted evidence"
	case score < 50:
		return "limited evidence with significant gaps or contradictions"
	case score < 70:
		return "mixed evidence with some supporting sources but limited confidence"
	case score < 90:
		return "good evidence but not yet fully established or lacks peer review"
	default:
		return "strong primary evidence with peer-reviewed sources and replications"
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
