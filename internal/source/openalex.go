package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

// openAlexAPIBase is the OpenAlex works endpoint. Declared as a var so tests
// can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works"

const openAlexMaxPerPage = 50

// OpenAlexBackend queries the OpenAlex works index
type OpenAlexBackend struct {
	HTTP HTTPOptions
}

func (b *OpenAlexBackend) Name() string { return NameOpenAlex }

// Fetch searches OpenAlex works by relevance
func (b *OpenAlexBackend) Fetch(ctx context.Context, query string, maxResults int) ([]model.EvidenceRecord, error) {
	params := url.Values{
		"search":   {query},
		"per_page": {strconv.Itoa(capResults(maxResults, openAlexMaxPerPage))},
		"page":     {"1"},
	}
	// Polite pool access
	if b.HTTP.Mailto != "" {
		params.Set("mailto", b.HTTP.Mailto)
	}

	resp, err := b.HTTP.get(ctx, openAlexAPIBase+"?"+params.Encode(), "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex request: %w", err)
	}
	defer resp.Body.Close()

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, fmt.Errorf("parse OpenAlex response: %w", err)
	}

	records := make([]model.EvidenceRecord, 0, len(oar.Results))
	for _, work := range oar.Results {
		var authors []string
		for _, a := range work.Authorships {
			authors = append(authors, a.Author.DisplayName)
		}

		r := model.EvidenceRecord{
			Type:       model.EvidencePeerReviewed,
			Title:      work.Title,
			Authors:    joinAuthors(authors),
			Venue:      work.PrimaryLocation.Source.DisplayName,
			Identifier: strings.TrimPrefix(work.DOI, "https://doi.org/"),
			Link:       work.DOI,
			Excerpt:    abstractExcerpt(work.AbstractInvertedIndex),
			SourceName: DisplayName(NameOpenAlex),
			QueryUsed:  query,
		}
		if r.Link == "" {
			r.Link = work.ID
		}
		if work.PublicationYear > 0 {
			r.PublicationDate = strconv.Itoa(work.PublicationYear)
		}
		if work.Type == "preprint" {
			r.Type = model.EvidencePreprint
		}
		records = append(records, r)
	}
	return records, nil
}

// maxAbstractWords bounds the excerpt rebuilt from an inverted index
const maxAbstractWords = 400

// abstractExcerpt rebuilds an OpenAlex abstract_inverted_index (word -> positions)
// into plain text, keeping the first maxAbstractWords positions.
func abstractExcerpt(invertedIndex map[string][]int) string {
	slots := make([]string, 0, min(len(invertedIndex), maxAbstractWords))
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			if pos < 0 || pos >= maxAbstractWords {
				continue
			}
			for len(slots) <= pos {
				slots = append(slots, "")
			}
			slots[pos] = word
		}
	}
	return plainText(strings.Join(slots, " "))
}

type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	Type                  string               `json:"type"`
	PublicationYear       int                  `json:"publication_year"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	PrimaryLocation       struct {
		Source struct {
			DisplayName string `json:"display_name"`
		} `json:"source"`
	} `json:"primary_location"`
}

type openAlexAuthorship struct {
	Author struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
}
