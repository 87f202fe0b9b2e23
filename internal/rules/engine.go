// Package rules checks claims against domain plausibility rules.
package rules

import (
	"regexp"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

// Rule fires when Pattern matches the lower-cased claim and, if set, Check
// accepts the match's submatches.
type Rule struct {
	Domain      string
	ID          string
	Description string
	Severity    model.Severity
	Pattern     *regexp.Regexp
	Check       func(groups []string) bool
}

func (r Rule) fires(text string) bool {
	if r.Check == nil {
		return r.Pattern.MatchString(text)
	}
	for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
		if r.Check(m) {
			return true
		}
	}
	return false
}

// DomainResult is the outcome for one domain
type DomainResult struct {
	Domain     string                  `json:"domain"`
	Violations []model.DomainViolation `json:"violations"`
	Plausible  bool                    `json:"is_plausible"`
}

// Report aggregates every domain
type Report struct {
	Domains            []DomainResult `json:"domain_results"`
	OverallPlausible   bool           `json:"overall_plausible"`
	CriticalViolations bool           `json:"critical_violations"`
}

// Violations flattens the per-domain violations in domain order
func (r Report) Violations() []model.DomainViolation {
	var out []model.DomainViolation
	for _, d := range r.Domains {
		out = append(out, d.Violations...)
	}
	return out
}

// Engine evaluates a rule table. Rules are grouped by domain in first-seen order.
type Engine struct {
	rules   []Rule
	domains []string
}

// NewEngine builds an engine over rules; no rules selects DefaultRules
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	e := &Engine{rules: rules}
	seen := make(map[string]bool)
	for _, r := range rules {
		if !seen[r.Domain] {
			seen[r.Domain] = true
			e.domains = append(e.domains, r.Domain)
		}
	}
	return e
}

// Check evaluates every domain against claim
func (e *Engine) Check(claim string) Report {
	text := strings.ToLower(claim)

	report := Report{OverallPlausible: true}
	for _, domain := range e.domains {
		result := DomainResult{Domain: domain, Violations: []model.DomainViolation{}}
		fired := make(map[string]bool)
		for _, r := range e.rules {
			if r.Domain != domain || fired[r.ID] || !r.fires(text) {
				continue
			}
			fired[r.ID] = true
			result.Violations = append(result.Violations, model.DomainViolation{
				Domain:      r.Domain,
				RuleID:      r.ID,
				Description: r.Description,
				Severity:    r.Severity,
			})
			if r.Severity == model.SeverityCritical {
				report.CriticalViolations = true
			}
		}
		result.Plausible = len(result.Violations) == 0
		if !result.Plausible {
			report.OverallPlausible = false
		}
		report.Domains = append(report.Domains, result)
	}
	return report
}
