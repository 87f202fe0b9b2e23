// Package source adapts bibliographic catalogs into evidence sources.
//
// A Backend talks to one catalog and may fail. Guard wraps a Backend into a
// Source whose Search never fails: errors, timeouts and panics become an empty
// result and a log line. Fanout issues many queries to many sources on a
// bounded worker pool.
package source

import (
	"context"

	"github.com/ppiankov/evidentia/internal/model"
)

// Source is the evidence-source contract consumed by the pipeline.
// Search returns an empty slice on any failure.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) []model.EvidenceRecord
}

// Backend queries one catalog and reports failures as errors
type Backend interface {
	Name() string
	Fetch(ctx context.Context, query string, maxResults int) ([]model.EvidenceRecord, error)
}

// Source identifiers accepted in configuration
const (
	NameCrossRef        = "crossref"
	NameEuropePMC       = "europepmc"
	NameArxiv           = "arxiv"
	NameOpenAlex        = "openalex"
	NameSemanticScholar = "semanticscholar"
)

// maxAuthors is how many author names a record keeps
const maxAuthors = 3

var displayNames = map[string]string{
	NameCrossRef:        "CrossRef",
	NameEuropePMC:       "PubMed/Europe PMC",
	NameArxiv:           "arXiv",
	NameOpenAlex:        "OpenAlex",
	NameSemanticScholar: "Semantic Scholar",
}

// DisplayName returns the human-readable catalog name for a source identifier
func DisplayName(name string) string {
	if d, ok := displayNames[name]; ok {
		return d
	}
	return name
}
