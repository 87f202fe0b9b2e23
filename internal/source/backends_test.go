package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/evidentia/internal/model"
)

// serve points *base at a test server answering every request with body
func serve(t *testing.T, base *string, contentType, body string, check func(*http.Request)) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", contentType)
		fmt.Fprint(w, body)
	}))
	old := *base
	*base = ts.URL
	t.Cleanup(func() {
		*base = old
		ts.Close()
	})
}

func testHTTP() HTTPOptions {
	return HTTPOptions{Client: http.DefaultClient, UserAgent: "evidentia-test", Mailto: "team@example.org"}
}

const crossrefBody = `{"message":{"items":[
 {"DOI":"10.1038/s41586-020-0001-1","type":"journal-article",
  "title":["Exercise and cardiovascular health"],
  "container-title":["Nature"],
  "abstract":"<jats:p>Regular exercise lowers &amp; stabilises blood pressure.</jats:p>",
  "author":[{"given":"Ada","family":"Lovelace"},{"given":"Alan","family":"Turing"},{"given":"Grace","family":"Hopper"},{"given":"Extra","family":"Author"}],
  "published-print":{"date-parts":[[2020,5,1]]}},
 {"type":"posted-content","title":["A preprint"],"URL":"https://example.org/p","published":{"date-parts":[[2021]]}}
]}}`

func TestCrossRefBackend_Fetch(t *testing.T) {
	serve(t, &crossrefAPIBase, "application/json", crossrefBody, func(r *http.Request) {
		assert.Equal(t, "exercise heart", r.URL.Query().Get("query"))
		assert.Equal(t, "5", r.URL.Query().Get("rows"))
		assert.Equal(t, "team@example.org", r.URL.Query().Get("mailto"))
		assert.Equal(t, "evidentia-test", r.Header.Get("User-Agent"))
	})

	b := &CrossRefBackend{HTTP: testHTTP()}
	records, err := b.Fetch(context.Background(), "exercise heart", 5)
	require.NoError(t, err)
	require.Len(t, records, 2)

	r := records[0]
	assert.Equal(t, model.EvidencePeerReviewed, r.Type)
	assert.Equal(t, "Exercise and cardiovascular health", r.Title)
	assert.Equal(t, "Ada Lovelace, Alan Turing, Grace Hopper", r.Authors)
	assert.Equal(t, "Nature", r.Venue)
	assert.Equal(t, "2020", r.PublicationDate)
	assert.Equal(t, "10.1038/s41586-020-0001-1", r.Identifier)
	assert.Equal(t, "https://doi.org/10.1038/s41586-020-0001-1", r.Link)
	assert.Equal(t, "Regular exercise lowers & stabilises blood pressure.", r.Excerpt)
	assert.Equal(t, "CrossRef", r.SourceName)
	assert.Equal(t, "exercise heart", r.QueryUsed)

	assert.Equal(t, model.EvidencePreprint, records[1].Type)
	assert.Equal(t, "https://example.org/p", records[1].Link)
	assert.Equal(t, "2021", records[1].PublicationDate)
}

func TestCrossRefBackend_CapsRows(t *testing.T) {
	serve(t, &crossrefAPIBase, "application/json", `{"message":{"items":[]}}`, func(r *http.Request) {
		assert.Equal(t, "20", r.URL.Query().Get("rows"))
	})

	records, err := (&CrossRefBackend{HTTP: testHTTP()}).Fetch(context.Background(), "q", 100)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCrossRefBackend_HTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	old := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = old }()

	_, err := (&CrossRefBackend{HTTP: testHTTP()}).Fetch(context.Background(), "q", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestEuropePMCBackend_Fetch(t *testing.T) {
	body := `{"resultList":{"result":[
	 {"title":"Exercise training and vascular function","doi":"10.1161/abc","pmid":"12345",
	  "pubYear":"2019","journalInfo":{"journal":{"title":"Circulation"}},
	  "abstractText":"Training improved endothelial function.",
	  "authorList":{"author":[{"fullName":"Smith J"},{"firstName":"Ann","lastName":"Lee"}]}}
	]}}`
	serve(t, &europePMCAPIBase, "application/json", body, func(r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "core", r.URL.Query().Get("resultType"))
		assert.Equal(t, "25", r.URL.Query().Get("pageSize"))
	})

	records, err := (&EuropePMCBackend{HTTP: testHTTP()}).Fetch(context.Background(), "exercise", 40)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, model.EvidencePeerReviewed, r.Type)
	assert.Equal(t, "Smith J, Ann Lee", r.Authors)
	assert.Equal(t, "Circulation", r.Venue)
	assert.Equal(t, "2019", r.PublicationDate)
	assert.Equal(t, "10.1161/abc", r.Identifier)
	assert.Equal(t, "https://europepmc.org/article/MED/12345", r.Link)
	assert.Equal(t, "PubMed/Europe PMC", r.SourceName)
}

func TestArxivBackend_Fetch(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <title>Attention
      Is All You Need</title>
    <summary>We propose a new architecture.</summary>
    <published>2023-01-17T18:00:00Z</published>
    <arxiv:doi>10.48550/arXiv.2301.07041</arxiv:doi>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
</feed>`
	serve(t, &arxivAPIBase, "application/atom+xml", body, func(r *http.Request) {
		assert.Equal(t, "all:transformers", r.URL.Query().Get("search_query"))
	})

	records, err := (&ArxivBackend{HTTP: testHTTP()}).Fetch(context.Background(), "transformers", 5)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, model.EvidencePreprint, r.Type)
	assert.Equal(t, "Attention Is All You Need", r.Title)
	assert.Equal(t, "Ashish Vaswani, Noam Shazeer", r.Authors)
	assert.Equal(t, "arXiv", r.Venue)
	assert.Equal(t, "2023-01-17", r.PublicationDate)
	assert.Equal(t, "10.48550/arXiv.2301.07041", r.Identifier)
	assert.Equal(t, "http://arxiv.org/abs/2301.07041v2", r.Link)
}

func TestArxivBackend_MalformedFeed(t *testing.T) {
	serve(t, &arxivAPIBase, "application/atom+xml", "<feed><entry>", nil)

	_, err := (&ArxivBackend{HTTP: testHTTP()}).Fetch(context.Background(), "q", 5)
	assert.Error(t, err)
}

func TestOpenAlexBackend_Fetch(t *testing.T) {
	body := `{"results":[
	 {"id":"https://openalex.org/W1","title":"Physical activity and mortality","doi":"https://doi.org/10.1000/xyz",
	  "type":"article","publication_year":2018,
	  "primary_location":{"source":{"display_name":"The Lancet"}},
	  "authorships":[{"author":{"display_name":"R. Doll"}}],
	  "abstract_inverted_index":{"Activity":[0],"reduces":[1],"mortality":[2]}},
	 {"id":"https://openalex.org/W2","title":"Preprint","type":"preprint"}
	]}`
	serve(t, &openAlexAPIBase, "application/json", body, func(r *http.Request) {
		assert.Equal(t, "team@example.org", r.URL.Query().Get("mailto"))
	})

	records, err := (&OpenAlexBackend{HTTP: testHTTP()}).Fetch(context.Background(), "activity", 5)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "10.1000/xyz", records[0].Identifier)
	assert.Equal(t, "https://doi.org/10.1000/xyz", records[0].Link)
	assert.Equal(t, "The Lancet", records[0].Venue)
	assert.Equal(t, "2018", records[0].PublicationDate)
	assert.Equal(t, "Activity reduces mortality", records[0].Excerpt)
	assert.Equal(t, model.EvidencePeerReviewed, records[0].Type)

	assert.Equal(t, model.EvidencePreprint, records[1].Type)
	assert.Equal(t, "https://openalex.org/W2", records[1].Link)
}

func TestAbstractExcerpt(t *testing.T) {
	tests := []struct {
		name  string
		index map[string][]int
		want  string
	}{
		{"nil map", nil, ""},
		{"single word", map[string][]int{"hello": {0}}, "hello"},
		{"repeated word", map[string][]int{"the": {0, 4}, "cat": {1}, "sat": {2}, "on": {3}, "mat": {5}}, "the cat sat on the mat"},
		{"missing positions collapse", map[string][]int{"gap": {0}, "closed": {3}}, "gap closed"},
		{"markup stripped", map[string][]int{"<p>Aerobic": {0}, "training</p>": {1}}, "Aerobic training"},
		{"positions past the cap dropped", map[string][]int{"kept": {0}, "dropped": {maxAbstractWords}}, "kept"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, abstractExcerpt(tt.index))
		})
	}
}

func TestSemanticScholarBackend_Fetch(t *testing.T) {
	body := `{"data":[
	 {"paperId":"p1","title":"Exercise and the heart","venue":"Circulation","year":2015,"url":"https://www.semanticscholar.org/paper/p1",
	  "externalIds":{"DOI":"10.1/heart"},"authors":[{"name":"A"},{"name":"B"}]},
	 {"paperId":"p2","title":"Arxiv only","externalIds":{"ArXiv":"2101.00001"}},
	 {"paperId":"p3","title":"Workshop","venue":"NeurIPS","publicationTypes":["Conference"],"externalIds":{}}
	]}`
	serve(t, &semanticAPIBase, "application/json", body, func(r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, semanticFields, r.URL.Query().Get("fields"))
	})

	b := &SemanticScholarBackend{HTTP: testHTTP(), APIKey: "secret"}
	records, err := b.Fetch(context.Background(), "exercise", 5)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, model.EvidencePeerReviewed, records[0].Type)
	assert.Equal(t, "10.1/heart", records[0].Identifier)
	assert.Equal(t, "A, B", records[0].Authors)
	assert.Equal(t, "2015", records[0].PublicationDate)
	assert.Equal(t, model.EvidencePreprint, records[1].Type)
	assert.Equal(t, model.EvidenceConference, records[2].Type)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "a b", plainText("  a \n b "))
	assert.Equal(t, "Background Results & more", plainText("<jats:title>Background</jats:title><jats:p>Results &amp; more</jats:p>"))
	assert.Equal(t, "", plainText(""))
}

func TestJoinAuthors(t *testing.T) {
	assert.Equal(t, "", joinAuthors(nil))
	assert.Equal(t, "a, b, c", joinAuthors([]string{"a", " ", "b", "c", "d"}))
}
