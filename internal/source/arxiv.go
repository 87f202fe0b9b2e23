package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const arxivMaxResults = 20

// ArxivBackend queries the arXiv Atom API
type ArxivBackend struct {
	HTTP HTTPOptions
}

func (b *ArxivBackend) Name() string { return NameArxiv }

// Fetch searches all arXiv fields; entries are preprints
func (b *ArxivBackend) Fetch(ctx context.Context, query string, maxResults int) ([]model.EvidenceRecord, error) {
	params := url.Values{
		"search_query": {"all:" + query},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(capResults(maxResults, arxivMaxResults))},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}

	resp, err := b.HTTP.get(ctx, arxivAPIBase+"?"+params.Encode(), "application/atom+xml", nil)
	if err != nil {
		return nil, fmt.Errorf("arXiv request: %w", err)
	}
	defer resp.Body.Close()

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse arXiv response: %w", err)
	}

	records := make([]model.EvidenceRecord, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		var authors []string
		for _, a := range entry.Authors {
			authors = append(authors, a.Name)
		}

		date := entry.Published
		if len(date) > 10 {
			date = date[:10]
		}

		records = append(records, model.EvidenceRecord{
			Type:            model.EvidencePreprint,
			Title:           strings.Join(strings.Fields(entry.Title), " "),
			Authors:         joinAuthors(authors),
			Venue:           "arXiv",
			PublicationDate: date,
			Identifier:      strings.TrimSpace(entry.DOI),
			Link:            strings.TrimSpace(entry.ID),
			Excerpt:         plainText(entry.Summary),
			SourceName:      DisplayName(NameArxiv),
			QueryUsed:       query,
		})
	}
	return records, nil
}

// arXiv Atom feed XML structures
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	DOI       string        `xml:"http://arxiv.org/schemas/atom doi"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}
