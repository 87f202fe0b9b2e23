package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const (
	semanticFields     = "title,abstract,authors,externalIds,year,venue,url,publicationTypes"
	semanticMaxResults = 100
)

// SemanticScholarBackend queries the Semantic Scholar Graph API
type SemanticScholarBackend struct {
	HTTP   HTTPOptions
	APIKey string
}

func (b *SemanticScholarBackend) Name() string { return NameSemanticScholar }

// Fetch searches Semantic Scholar papers by keyword
func (b *SemanticScholarBackend) Fetch(ctx context.Context, query string, maxResults int) ([]model.EvidenceRecord, error) {
	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(capResults(maxResults, semanticMaxResults))},
		"fields": {semanticFields},
	}

	var header http.Header
	if b.APIKey != "" {
		header = http.Header{"X-Api-Key": {b.APIKey}}
	}

	resp, err := b.HTTP.get(ctx, semanticAPIBase+"?"+params.Encode(), "application/json", header)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar request: %w", err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parse Semantic Scholar response: %w", err)
	}

	records := make([]model.EvidenceRecord, 0, len(sr.Data))
	for _, paper := range sr.Data {
		var authors []string
		for _, a := range paper.Authors {
			authors = append(authors, a.Name)
		}

		r := model.EvidenceRecord{
			Type:       semanticType(paper),
			Title:      paper.Title,
			Authors:    joinAuthors(authors),
			Venue:      paper.Venue,
			Identifier: paper.ExternalIDs.DOI,
			Link:       paper.URL,
			Excerpt:    plainText(paper.Abstract),
			SourceName: DisplayName(NameSemanticScholar),
			QueryUsed:  query,
		}
		if paper.Year > 0 {
			r.PublicationDate = strconv.Itoa(paper.Year)
		}
		records = append(records, r)
	}
	return records, nil
}

// semanticType treats arXiv-only papers without a venue as preprints
func semanticType(p semanticPaper) model.EvidenceType {
	for _, t := range p.PublicationTypes {
		if strings.EqualFold(t, "Conference") {
			return model.EvidenceConference
		}
	}
	if p.ExternalIDs.ArXiv != "" && p.ExternalIDs.DOI == "" && (p.Venue == "" || strings.EqualFold(p.Venue, "arXiv.org")) {
		return model.EvidencePreprint
	}
	return model.EvidencePeerReviewed
}

type semanticResponse struct {
	Data []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID          string   `json:"paperId"`
	Title            string   `json:"title"`
	Abstract         string   `json:"abstract"`
	Venue            string   `json:"venue"`
	URL              string   `json:"url"`
	Year             int      `json:"year"`
	PublicationTypes []string `json:"publicationTypes"`
	Authors          []struct {
		Name string `json:"name"`
	} `json:"authors"`
	ExternalIDs struct {
		DOI   string `json:"DOI"`
		ArXiv string `json:"ArXiv"`
	} `json:"externalIds"`
}
