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

// crossrefAPIBase is the CrossRef works endpoint. Declared as a var so tests
// can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

const crossrefMaxRows = 20

// CrossRefBackend queries the CrossRef REST API
type CrossRefBackend struct {
	HTTP HTTPOptions
}

func (b *CrossRefBackend) Name() string { return NameCrossRef }

// Fetch searches CrossRef works by free text
func (b *CrossRefBackend) Fetch(ctx context.Context, query string, maxResults int) ([]model.EvidenceRecord, error) {
	params := url.Values{
		"query": {query},
		"rows":  {strconv.Itoa(capResults(maxResults, crossrefMaxRows))},
	}
	if b.HTTP.Mailto != "" {
		params.Set("mailto", b.HTTP.Mailto)
	}

	resp, err := b.HTTP.get(ctx, crossrefAPIBase+"?"+params.Encode(), "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("CrossRef request: %w", err)
	}
	defer resp.Body.Close()

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parse CrossRef response: %w", err)
	}

	records := make([]model.EvidenceRecord, 0, len(cr.Message.Items))
	for _, item := range cr.Message.Items {
		var authors []string
		for _, a := range item.Author {
			authors = append(authors, strings.TrimSpace(a.Given+" "+a.Family))
		}

		r := model.EvidenceRecord{
			Type:            crossrefType(item.Type),
			Title:           first(item.Title),
			Authors:         joinAuthors(authors),
			Venue:           first(item.ContainerTitle),
			PublicationDate: item.year(),
			Identifier:      item.DOI,
			Excerpt:         plainText(item.Abstract),
			SourceName:      DisplayName(NameCrossRef),
			QueryUsed:       query,
		}
		if item.DOI != "" {
			r.Link = "https://doi.org/" + item.DOI
		} else {
			r.Link = item.URL
		}
		records = append(records, r)
	}
	return records, nil
}

// crossrefType maps CrossRef work types onto evidence types; journal content is the default
func crossrefType(t string) model.EvidenceType {
	switch t {
	case "posted-content":
		return model.EvidencePreprint
	case "proceedings-article":
		return model.EvidenceConference
	default:
		return model.EvidencePeerReviewed
	}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

type crossrefResponse struct {
	Message struct {
		Items []crossrefItem `json:"items"`
	} `json:"message"`
}

type crossrefItem struct {
	DOI            string           `json:"DOI"`
	URL            string           `json:"URL"`
	Type           string           `json:"type"`
	Title          []string         `json:"title"`
	ContainerTitle []string         `json:"container-title"`
	Abstract       string           `json:"abstract"`
	Author         []crossrefAuthor `json:"author"`
	PublishedPrint crossrefDate     `json:"published-print"`
	Published      crossrefDate     `json:"published"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

// year prefers the print date, falling back to the earliest publication date
func (i crossrefItem) year() string {
	for _, d := range []crossrefDate{i.PublishedPrint, i.Published} {
		if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 && d.DateParts[0][0] > 0 {
			return strconv.Itoa(d.DateParts[0][0])
		}
	}
	return ""
}
