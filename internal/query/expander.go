// Package query expands a claim into alternative literature search queries.
package query

import (
	"fmt"
	"strings"
	"unicode"
)

// Expansion limits
const (
	MaxQueries       = 12
	maxParaphrases   = 3
	maxConcepts      = 5
	maxSynonyms      = 5
	maxPhrases       = 5
	minConceptLength = 4
	minPhraseWords   = 2
	maxPhraseWords   = 4
)

// Expander derives search queries from a claim. Every query is a transformation
// of the claim's own words; nothing is invented.
type Expander struct {
	paraphrases []paraphrase
	synonyms    map[string][]string
}

// NewExpander returns an expander over the built-in vocabularies
func NewExpander() *Expander {
	return &Expander{paraphrases: paraphrases, synonyms: synonyms}
}

// Expand returns at most MaxQueries queries in generation order: the quoted
// claim, causal paraphrases, concept/synonym disjunctions, adjacent concept
// conjunctions, then short phrases.
func (e *Expander) Expand(claim string) []string {
	claim = strings.TrimSpace(claim)
	if claim == "" {
		return nil
	}

	queries := []string{quote(claim)}

	for _, p := range e.Paraphrases(claim) {
		queries = append(queries, quote(p))
	}

	concepts := Concepts(claim)
	for i, c := range concepts {
		if i == maxConcepts {
			break
		}
		queries = append(queries, e.conceptQuery(c))
	}

	for i := 0; i+1 < len(concepts); i++ {
		queries = append(queries, fmt.Sprintf("%s AND %s", quote(concepts[i]), quote(concepts[i+1])))
	}

	for _, p := range Phrases(claim) {
		queries = append(queries, quote(p))
	}

	if len(queries) > MaxQueries {
		queries = queries[:MaxQueries]
	}
	return queries
}

// Paraphrases substitutes each matching causal trigger with its alternatives
func (e *Expander) Paraphrases(claim string) []string {
	lower := strings.ToLower(claim)
	var out []string
	for _, p := range e.paraphrases {
		if !strings.Contains(lower, p.trigger) {
			continue
		}
		for _, alt := range p.alternatives {
			out = append(out, strings.ReplaceAll(lower, p.trigger, alt))
			if len(out) == maxParaphrases {
				return out
			}
		}
	}
	return out
}

// Synonyms returns up to maxSynonyms vocabulary entries for a concept
func (e *Expander) Synonyms(concept string) []string {
	syns := e.synonyms[concept]
	if len(syns) > maxSynonyms {
		syns = syns[:maxSynonyms]
	}
	return syns
}

func (e *Expander) conceptQuery(concept string) string {
	parts := []string{quote(concept)}
	for _, s := range e.Synonyms(concept) {
		parts = append(parts, quote(s))
	}
	return strings.Join(parts, " OR ")
}

// Concepts returns the claim's distinct content words: alphabetic, not a
// stopword, lemmatized, and at least minConceptLength long
func Concepts(claim string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range strings.Fields(strings.ToLower(claim)) {
		w = strings.TrimFunc(w, unicode.IsPunct)
		if w == "" || !isAlpha(w) || stopwords[w] {
			continue
		}
		lemma := Lemmatize(w)
		if len(lemma) < minConceptLength || seen[lemma] {
			continue
		}
		seen[lemma] = true
		out = append(out, lemma)
	}
	return out
}

// Phrases returns the first maxPhrases contiguous 2-4 word windows of the claim
func Phrases(claim string) []string {
	words := strings.Fields(strings.ToLower(claim))
	var out []string
	for i := 0; i+1 < len(words); i++ {
		for n := minPhraseWords; n <= maxPhraseWords && i+n <= len(words); n++ {
			out = append(out, strings.Join(words[i:i+n], " "))
			if len(out) == maxPhrases {
				return out
			}
		}
	}
	return out
}

// Lemmatize reduces a plural noun to its singular form
func Lemmatize(word string) string {
	switch {
	case len(word) <= 3, invariantNouns[word]:
		return word
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "sses"),
		strings.HasSuffix(word, "ches"),
		strings.HasSuffix(word, "shes"),
		strings.HasSuffix(word, "xes"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ss"),
		strings.HasSuffix(word, "us"),
		strings.HasSuffix(word, "is"):
		return word
	case strings.HasSuffix(word, "s"):
		return word[:len(word)-1]
	}
	return word
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func quote(s string) string {
	return `"` + s + `"`
}
