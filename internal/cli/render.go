package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// renderText writes a human-readable summary of one result
func renderText(w io.Writer, res *model.VerificationResult) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Claim:          %s\n", res.OriginalClaim)
	fmt.Fprintf(&b, "Classification: %s\n", res.Classification)
	fmt.Fprintf(&b, "Confidence:     %d/100 (%s)\n", res.ConfidenceScore, res.ConfidenceColor)
	fmt.Fprintf(&b, "Replication:    %s\n", res.ReplicationStatus)

	if len(res.Drivers) > 0 {
		b.WriteString("\nDrivers:\n")
		for _, d := range res.Drivers {
			fmt.Fprintf(&b, "  - %s\n", d)
		}
	}

	if len(res.DomainViolations) > 0 {
		b.WriteString("\nDomain rules:\n")
		for _, v := range res.DomainViolations {
			fmt.Fprintf(&b, "  - [%s] %s/%s: %s\n", v.Severity, v.Domain, v.RuleID, v.Description)
		}
	}

	if len(res.TopEvidence) > 0 {
		b.WriteString("\nTop evidence:\n")
		for i, e := range res.TopEvidence {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, e.Title)
			fmt.Fprintf(&b, "     %s, %s (%s, %s) relevance %.2f\n", e.Venue, e.PublicationDate, e.Type, e.SourceName, e.RelevanceScore)
			if e.Link != "" {
				fmt.Fprintf(&b, "     %s\n", e.Link)
			}
		}
	}

	if len(res.Contradictions) > 0 {
		b.WriteString("\nContradicting sources:\n")
		for _, c := range res.Contradictions {
			fmt.Fprintf(&b, "  - %s (%s)\n", c.Title, c.Venue)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", res.ExplanationPlain)
	fmt.Fprintf(&b, "Suggested: %s\n", res.SuggestedCorrections)
	fmt.Fprintf(&b, "Search: %s\n", res.SearchActions)

	_, err := io.WriteString(w, b.String())
	return err
}

// writeResults renders results in the selected format
func writeResults(w io.Writer, results []*model.VerificationResult, pretty bool) error {
	if outputFormat == "text" {
		for i, res := range results {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"+strings.Repeat("─", 60)+"\n\n"); err != nil {
					return err
				}
			}
			if err := renderText(w, res); err != nil {
				return err
			}
		}
		return nil
	}
	if len(results) == 1 {
		return writeJSON(w, results[0], pretty)
	}
	return writeJSON(w, results, pretty)
}
