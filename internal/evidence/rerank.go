package evidence

import (
	"sort"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

// Ranking defaults
const (
	DefaultRelevanceThreshold = 0.25
	PartialSupportBoost       = 0.2
	TopEvidenceLimit          = 5
)

// mechanismTerms signal that a record discusses an underlying mechanism
var mechanismTerms = []string{
	"mechanism", "pathway", "process", "function", "effect", "response",
	"regulation", "activation", "inhibition", "modulation", "interaction",
}

// Reranker scores records by lexical overlap with a claim
type Reranker struct {
	threshold float64
}

// NewReranker creates a reranker; threshold <= 0 selects the default
func NewReranker(threshold float64) *Reranker {
	if threshold <= 0 {
		threshold = DefaultRelevanceThreshold
	}
	return &Reranker{threshold: threshold}
}

// Rank scores every record against claim and returns them sorted by descending
// relevance. Ties keep input order.
func (rr *Reranker) Rank(claim string, records []model.EvidenceRecord) []model.EvidenceRecord {
	claimWords := wordSet(claim)

	scored := make([]model.EvidenceRecord, len(records))
	for i, r := range records {
		text := strings.ToLower(r.Title + " " + r.Excerpt + " " + r.Venue)
		evidenceWords := wordSet(text)

		similarity := jaccard(claimWords, evidenceWords)
		partial := overlap(claimWords, evidenceWords) >= 2 || containsAny(text, mechanismTerms)
		if partial {
			similarity = min(1.0, similarity+PartialSupportBoost)
		}

		r.RelevanceScore = similarity
		r.HasPartialSupport = partial
		r.IsRelevant = similarity >= rr.threshold || partial
		scored[i] = r
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})
	return scored
}

// Top returns the first limit relevant records of a ranked list
func Top(ranked []model.EvidenceRecord, limit int) []model.EvidenceRecord {
	out := make([]model.EvidenceRecord, 0, limit)
	for _, r := range ranked {
		if len(out) == limit {
			break
		}
		if r.IsRelevant {
			out = append(out, r)
		}
	}
	return out
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}

func overlap(a, b map[string]bool) int {
	n := 0
	for w := range a {
		if b[w] {
			n++
		}
	}
	return n
}

// jaccard is |a∩b| / |a∪b|, zero when either set is empty
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := overlap(a, b)
	return float64(shared) / float64(len(a)+len(b)-shared)
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
