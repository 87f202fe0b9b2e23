package model

import "strings"

// EvidenceType classifies the publication kind of an evidence record
type EvidenceType string

const (
	EvidencePeerReviewed EvidenceType = "peer-reviewed"
	EvidencePreprint     EvidenceType = "preprint"
	EvidenceConference   EvidenceType = "conference"
	EvidenceNews         EvidenceType = "news"
	EvidenceWeb          EvidenceType = "web"
	EvidenceUnknown      EvidenceType = "unknown"
)

// Placeholders written by the metadata normalizer for missing fields
const (
	PlaceholderTitle   = "No title available"
	PlaceholderAuthors = "Unknown authors"
	PlaceholderVenue   = "Unknown venue"
	PlaceholderDate    = "Unknown date"
)

// MaxExcerptLength is the longest excerpt kept before truncation
const MaxExcerptLength = 200

// EvidenceRecord is one bibliographic work returned by an evidence source
type EvidenceRecord struct {
	Type            EvidenceType `json:"type"`
	Title           string       `json:"title"`
	Authors         string       `json:"authors"`
	Venue           string       `json:"venue"`
	PublicationDate string       `json:"date"`
	Identifier      string       `json:"doi"`     // Catalog identifier, usually a DOI
	Link            string       `json:"url"`     // Canonical link to the work
	Excerpt         string       `json:"excerpt"` // At most MaxExcerptLength chars plus "..."
	SourceName      string       `json:"source"`
	QueryUsed       string       `json:"query_used"`

	// Set by the reranker
	RelevanceScore    float64 `json:"relevance_score"`
	IsRelevant        bool    `json:"is_relevant"`
	HasPartialSupport bool    `json:"partial_support"`
}

// IsPeerReviewed reports whether the record declares a peer-reviewed type
func (r EvidenceRecord) IsPeerReviewed() bool {
	return r.Type == EvidencePeerReviewed
}

// ContradictionRecord is an evidence record found by a contradiction-oriented query
type ContradictionRecord struct {
	Type       EvidenceType `json:"type"`
	Title      string       `json:"title"`
	Venue      string       `json:"venue"`
	Identifier string       `json:"doi"`
	Link       string       `json:"url"`
	SourceName string       `json:"source"`
	QueryUsed  string       `json:"query_used"`
}

// NewContradiction narrows an evidence record to its contradiction shape
func NewContradiction(r EvidenceRecord) ContradictionRecord {
	return ContradictionRecord{
		Type:       r.Type,
		Title:      r.Title,
		Venue:      r.Venue,
		Identifier: r.Identifier,
		Link:       r.Link,
		SourceName: r.SourceName,
		QueryUsed:  r.QueryUsed,
	}
}

// IsPlaceholder reports whether a field value is empty or a normalizer default
func IsPlaceholder(value string) bool {
	switch strings.TrimSpace(value) {
	case "", PlaceholderTitle, PlaceholderAuthors, PlaceholderVenue, PlaceholderDate:
		return true
	}
	return false
}
