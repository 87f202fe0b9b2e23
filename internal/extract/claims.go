// Package extract splits free text or HTML into claims worth verifying.
package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/evidentia/internal/model"
)

// DefaultMinWords is the shortest sentence (exclusive) treated as a claim
const DefaultMinWords = 3

// abbreviations never end a sentence
var abbreviations = map[string]bool{
	"dr.": true, "mr.": true, "mrs.": true, "ms.": true, "prof.": true,
	"e.g.": true, "i.e.": true, "etc.": true, "vs.": true, "al.": true,
	"fig.": true, "no.": true, "approx.": true, "st.": true,
}

// ClaimExtractor turns text into atomic claims
type ClaimExtractor struct {
	minWords int
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{minWords: DefaultMinWords}
}

// Extract returns one claim per sentence with more than minWords words.
// Repeated sentences are returned once.
func (e *ClaimExtractor) Extract(text string) []model.Claim {
	var claims []model.Claim
	for _, sentence := range splitSentences(text) {
		if len(strings.Fields(sentence)) <= e.minWords {
			continue
		}
		claim, err := model.NewClaim(sentence)
		if err != nil {
			continue
		}
		claims = append(claims, claim)
	}
	return dedupeClaims(claims)
}

// ExtractHTML extracts claims from the visible text of an HTML document
func (e *ClaimExtractor) ExtractHTML(htmlContent string) ([]model.Claim, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}
	return e.Extract(extractVisibleText(doc)), nil
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		// block elements end a sentence even without punctuation
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "li", "h1", "h2", "h3", "h4", "h5", "h6", "td", "div", "br":
				buf.WriteString("\n\n")
			}
		}
	}

	walk(n)
	return buf.String()
}

// splitSentences splits on terminators followed by whitespace, and on blank lines
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		if s := strings.Join(strings.Fields(current.String()), " "); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, paragraph := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		for i, r := range paragraph {
			current.WriteRune(r)

			if r != '.' && r != '!' && r != '?' {
				continue
			}
			if i+1 < len(paragraph) && !isSpace(paragraph[i+1]) {
				continue
			}
			if r == '.' && isAbbreviation(current.String()) {
				continue
			}
			flush()
		}
		flush()
	}

	return sentences
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}

func isAbbreviation(sentence string) bool {
	fields := strings.Fields(sentence)
	if len(fields) == 0 {
		return false
	}
	return abbreviations[strings.ToLower(fields[len(fields)-1])]
}

// dedupeClaims removes duplicate claims
func dedupeClaims(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool)
	var unique []model.Claim

	for _, claim := range claims {
		key := strings.ToLower(claim.Original)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, claim)
		}
	}

	return unique
}
