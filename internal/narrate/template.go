package narrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

// Fixed texts for the short-circuit paths
const (
	ImplausibleDriver      = "Claim violates established physical laws or domain-specific rules"
	ImplausibleExplanation = "Claim violates established physical laws or domain-specific rules. No credible evidence can support physically impossible claims."
	ImplausibleCorrections = "Revise claim to align with established scientific principles. Consider consulting domain experts for accurate information."

	unsupportedCorrections = "Provide specific citations and evidence sources. Consider revising claim to be more conservative and evidence-based."
	supportedCorrections   = "Claim appears to be well-supported by available evidence."
)

// Template renders deterministic explanations from the result fields
type Template struct{}

// NewTemplate creates the template narrator
func NewTemplate() *Template {
	return &Template{}
}

// Name returns the narrator name
func (t *Template) Name() string {
	return "template"
}

// Narrate never fails
func (t *Template) Narrate(_ context.Context, res *model.VerificationResult) (Narration, error) {
	return Narration{
		Explanation: Explain(res),
		Corrections: Corrections(res),
	}, nil
}

// Explain renders the explanation for res
func Explain(res *model.VerificationResult) string {
	switch res.Classification {
	case model.ClassFabricated:
		return fmt.Sprintf("No peer-reviewed or credible evidence found for fabricated terms: %s. Related real literature may exist but does not support these specific claims.",
			strings.Join(res.FabricatedTerms, ", "))
	case model.ClassPhysicallyImplausible:
		return ImplausibleExplanation
	case model.ClassFullySupported:
		return explainFull(res)
	case model.ClassPartiallySupported:
		return explainPartial(res)
	default:
		return explainUnsupported(res)
	}
}

// Corrections renders the suggested corrections for res
func Corrections(res *model.VerificationResult) string {
	switch res.Classification {
	case model.ClassFabricated:
		return fmt.Sprintf("Remove fabricated terms: %s. Consider grounding the claim in established research areas instead.",
			strings.Join(res.FabricatedTerms, ", "))
	case model.ClassPhysicallyImplausible:
		return ImplausibleCorrections
	case model.ClassUnsupported:
		return unsupportedCorrections
	default:
		return supportedCorrections
	}
}

func explainFull(res *model.VerificationResult) string {
	peer, preprint, _ := composition(res.TopEvidence)

	var b strings.Builder
	fmt.Fprintf(&b, "Strong evidence with confidence score %d.", res.ConfidenceScore)
	if peer > 0 {
		fmt.Fprintf(&b, " %d peer-reviewed source(s) directly confirm this claim.", peer)
	}
	if preprint > 0 {
		fmt.Fprintf(&b, " %d preprint(s) provide additional support.", preprint)
	}
	if len(res.TopEvidence) > 0 {
		fmt.Fprintf(&b, " Key evidence: %s.", cite(res.TopEvidence[0]))
	}
	return b.String()
}

func explainPartial(res *model.VerificationResult) string {
	peer, preprint, partial := composition(res.TopEvidence)

	var clauses []string
	if peer > 0 {
		clauses = append(clauses, fmt.Sprintf("%d peer-reviewed source(s) provide some support", peer))
	}
	if preprint > 0 {
		clauses = append(clauses, fmt.Sprintf("%d preprint(s) suggest preliminary evidence", preprint))
	}
	if partial > 0 {
		clauses = append(clauses, fmt.Sprintf("%d source(s) support core mechanisms", partial))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Mixed evidence with confidence score %d.", res.ConfidenceScore)
	if len(clauses) > 0 {
		b.WriteString(" " + capitalize(strings.Join(clauses, ", ")))
		if n := len(res.Contradictions); n > 0 {
			fmt.Fprintf(&b, ", but %d contradictory source(s) exist", n)
		}
		b.WriteString(".")
	} else if n := len(res.Contradictions); n > 0 {
		fmt.Fprintf(&b, " %d contradictory source(s) exist.", n)
	}
	if len(res.TopEvidence) > 0 {
		fmt.Fprintf(&b, " Supporting evidence includes: %s.", cite(res.TopEvidence[0]))
	}
	b.WriteString(" Additional research needed for definitive conclusions.")
	return b.String()
}

func explainUnsupported(res *model.VerificationResult) string {
	if res.ConfidenceScore == 0 {
		return "No credible evidence found for this claim. The claim may be unsupported or require additional research."
	}
	if len(res.TopEvidence) == 0 {
		return fmt.Sprintf("Very weak evidence with confidence score %d. No relevant sources found. Additional research needed.", res.ConfidenceScore)
	}
	return fmt.Sprintf("Very weak evidence with confidence score %d. Limited supporting sources found: %s. Additional research needed.",
		res.ConfidenceScore, cite(res.TopEvidence[0]))
}

func composition(evidence []model.EvidenceRecord) (peer, preprint, partial int) {
	for _, r := range evidence {
		switch r.Type {
		case model.EvidencePeerReviewed:
			peer++
		case model.EvidencePreprint:
			preprint++
		}
		if r.HasPartialSupport {
			partial++
		}
	}
	return peer, preprint, partial
}

func cite(r model.EvidenceRecord) string {
	title, venue := r.Title, r.Venue
	if title == "" {
		title = model.PlaceholderTitle
	}
	if venue == "" {
		venue = model.PlaceholderVenue
	}
	return fmt.Sprintf("%s (%s)", title, venue)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
