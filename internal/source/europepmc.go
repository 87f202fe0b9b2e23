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

// europePMCAPIBase is the Europe PMC REST search endpoint. Declared as a var
// so tests can substitute an httptest server.
var europePMCAPIBase = "https://www.ebi.ac.uk/europepmc/webservices/rest/search"

const europePMCMaxPageSize = 25

// EuropePMCBackend queries Europe PMC, which mirrors PubMed
type EuropePMCBackend struct {
	HTTP HTTPOptions
}

func (b *EuropePMCBackend) Name() string { return NameEuropePMC }

// Fetch searches Europe PMC's core result set
func (b *EuropePMCBackend) Fetch(ctx context.Context, query string, maxResults int) ([]model.EvidenceRecord, error) {
	params := url.Values{
		"query":      {query},
		"format":     {"json"},
		"pageSize":   {strconv.Itoa(capResults(maxResults, europePMCMaxPageSize))},
		"resultType": {"core"},
	}

	resp, err := b.HTTP.get(ctx, europePMCAPIBase+"?"+params.Encode(), "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("Europe PMC request: %w", err)
	}
	defer resp.Body.Close()

	var er europePMCResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parse Europe PMC response: %w", err)
	}

	records := make([]model.EvidenceRecord, 0, len(er.ResultList.Result))
	for _, item := range er.ResultList.Result {
		var authors []string
		for _, a := range item.AuthorList.Author {
			name := a.FullName
			if name == "" {
				name = strings.TrimSpace(a.FirstName + " " + a.LastName)
			}
			authors = append(authors, name)
		}

		venue := item.JournalTitle
		if venue == "" {
			venue = item.JournalInfo.Journal.Title
		}

		r := model.EvidenceRecord{
			Type:            model.EvidencePeerReviewed,
			Title:           strings.TrimSpace(item.Title),
			Authors:         joinAuthors(authors),
			Venue:           venue,
			PublicationDate: item.PubYear,
			Identifier:      item.DOI,
			Excerpt:         plainText(item.AbstractText),
			SourceName:      DisplayName(NameEuropePMC),
			QueryUsed:       query,
		}
		if item.PMID != "" {
			r.Link = "https://europepmc.org/article/MED/" + item.PMID
		}
		if item.PubType == "preprint" {
			r.Type = model.EvidencePreprint
		}
		records = append(records, r)
	}
	return records, nil
}

type europePMCResponse struct {
	ResultList struct {
		Result []europePMCResult `json:"result"`
	} `json:"resultList"`
}

type europePMCResult struct {
	Title        string `json:"title"`
	DOI          string `json:"doi"`
	PMID         string `json:"pmid"`
	PubYear      string `json:"pubYear"`
	PubType      string `json:"pubType"`
	JournalTitle string `json:"journalTitle"`
	AbstractText string `json:"abstractText"`
	JournalInfo  struct {
		Journal struct {
			Title string `json:"title"`
		} `json:"journal"`
	} `json:"journalInfo"`
	AuthorList struct {
		Author []europePMCAuthor `json:"author"`
	} `json:"authorList"`
}

type europePMCAuthor struct {
	FullName  string `json:"fullName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
