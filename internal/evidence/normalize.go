// Package evidence normalizes, deduplicates and ranks evidence records.
package evidence

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/evidentia/internal/model"
)

// doiPattern matches a DOI embedded anywhere in free text
var doiPattern = regexp.MustCompile(`(?i)10\.\d{4,9}/[-._;()/:A-Z0-9]+`)

// ExtractDOI returns the first DOI found in text, or ""
func ExtractDOI(text string) string {
	return doiPattern.FindString(text)
}

// Normalize fills missing fields with placeholders, recovers a DOI from the
// link when the identifier is empty, and truncates long excerpts.
func Normalize(r model.EvidenceRecord) model.EvidenceRecord {
	if strings.TrimSpace(r.Identifier) == "" && r.Link != "" {
		if doi := ExtractDOI(r.Link); doi != "" {
			r.Identifier = doi
			r.Link = "https://doi.org/" + doi
		}
	}

	r.Title = orDefault(r.Title, model.PlaceholderTitle)
	r.Authors = orDefault(r.Authors, model.PlaceholderAuthors)
	r.Venue = orDefault(r.Venue, model.PlaceholderVenue)
	r.PublicationDate = orDefault(r.PublicationDate, model.PlaceholderDate)
	if r.Type == "" {
		r.Type = model.EvidenceUnknown
	}

	if utf8.RuneCountInString(r.Excerpt) > model.MaxExcerptLength {
		r.Excerpt = string([]rune(r.Excerpt)[:model.MaxExcerptLength]) + "..."
	}
	return r
}

// NormalizeAll applies Normalize to every record
func NormalizeAll(records []model.EvidenceRecord) []model.EvidenceRecord {
	out := make([]model.EvidenceRecord, len(records))
	for i, r := range records {
		out[i] = Normalize(r)
	}
	return out
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
