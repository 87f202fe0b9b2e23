package rules

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/evidentia/internal/model"
)

func ruleIDs(r Report) []string {
	var ids []string
	for _, v := range r.Violations() {
		ids = append(ids, v.RuleID)
	}
	return ids
}

func TestEngine_CriticalViolations(t *testing.T) {
	tests := []struct {
		claim  string
		domain string
		rule   string
	}{
		{"Instantaneous knowledge transfer across any distance", DomainPhysics, "instantaneous_transfer"},
		{"This perpetual motion machine powers a city", DomainPhysics, "perpetual_motion"},
		{"The device creates energy from nothing", DomainPhysics, "energy_from_nothing"},
		{"Faster than light travel was achieved", DomainPhysics, "faster_than_light"},
		{"The engine violates conservation of energy", DomainPhysics, "energy_conservation"},
		{"Twins share telepathic communication", DomainNeuroscience, "telepathy"},
		{"Instantaneous memory transfer between mice", DomainNeuroscience, "memory_transfer"},
		{"Consciousness upload without technology is possible", DomainNeuroscience, "substrate_free_upload"},
		{"A correlation of 1.7 between diet and mood", DomainStatistics, "correlation_out_of_range"},
		{"The correlation coefficient was -2.3", DomainStatistics, "correlation_out_of_range"},
		{"Correlation greater than 1 was observed", DomainStatistics, "correlation_out_of_range"},
		{"The probability of success is 1.5", DomainStatistics, "probability_out_of_range"},
		{"A probability of 150% was reported", DomainStatistics, "probability_out_of_range"},
		{"A correlation of 2 between income and height", DomainStatistics, "correlation_out_of_range"},
		{"The correlation = 1.2", DomainStatistics, "correlation_out_of_range"},
		{"The model reports negative variance", DomainStatistics, "negative_variance"},
		{"Standard deviation was negative in every arm", DomainStatistics, "negative_standard_deviation"},
	}

	engine := NewEngine()
	for _, tt := range tests {
		t.Run(tt.claim, func(t *testing.T) {
			report := engine.Check(tt.claim)
			assert.True(t, report.CriticalViolations)
			assert.False(t, report.OverallPlausible)

			var found bool
			for _, v := range report.Violations() {
				if v.Domain == tt.domain && v.RuleID == tt.rule {
					found = true
					assert.Equal(t, model.SeverityCritical, v.Severity)
					assert.NotEmpty(t, v.Description)
				}
			}
			assert.True(t, found, "expected %s/%s in %v", tt.domain, tt.rule, ruleIDs(report))
		})
	}
}

func TestEngine_PlausibleClaims(t *testing.T) {
	claims := []string{
		"Regular exercise improves cardiovascular health",
		"A correlation of 0.8 between sleep and mood",
		"The correlation coefficient was -0.45",
		"The probability of relapse is 0.3",
		"A probability of 45% was observed",
		"Information transfer in neurons takes milliseconds",
		"Variance decreased after treatment",
		"The correlation of 3 genetic markers with diabetes was studied",
		"The probability of 2 heads in a row is 0.25",
		"Smoking doubles the probability of 5 year mortality",
	}

	engine := NewEngine()
	for _, claim := range claims {
		t.Run(claim, func(t *testing.T) {
			report := engine.Check(claim)
			assert.True(t, report.OverallPlausible, "unexpected violations %v", ruleIDs(report))
			assert.False(t, report.CriticalViolations)
			assert.Empty(t, report.Violations())
		})
	}
}

func TestEngine_WarningDoesNotBlock(t *testing.T) {
	report := NewEngine().Check("Cold fusion reactors are being tested")
	assert.False(t, report.CriticalViolations)
	assert.False(t, report.OverallPlausible)
	require.Len(t, report.Violations(), 1)
	assert.Equal(t, model.SeverityWarning, report.Violations()[0].Severity)
}

func TestEngine_EvaluatesEveryDomain(t *testing.T) {
	report := NewEngine().Check("Telepathic communication has a probability of 2")
	require.Len(t, report.Domains, 3)
	assert.Equal(t, DomainPhysics, report.Domains[0].Domain)
	assert.True(t, report.Domains[0].Plausible)
	assert.False(t, report.Domains[1].Plausible)
	assert.False(t, report.Domains[2].Plausible)
	assert.Equal(t, []string{"telepathy", "probability_out_of_range"}, ruleIDs(report))
}

func TestEngine_DuplicateRuleIDReportedOnce(t *testing.T) {
	report := NewEngine().Check("correlation greater than 1, a correlation of 3")
	assert.Equal(t, []string{"correlation_out_of_range"}, ruleIDs(report))
}

func TestEngine_CustomRules(t *testing.T) {
	engine := NewEngine(Rule{
		Domain:      "chemistry",
		ID:          "transmutation",
		Description: "Claim asserts chemical transmutation of elements",
		Severity:    model.SeverityCritical,
		Pattern:     regexp.MustCompile(`lead.*into.*gold`),
	})

	report := engine.Check("Turning LEAD into GOLD with vinegar")
	assert.True(t, report.CriticalViolations)
	require.Len(t, report.Domains, 1)
	assert.Equal(t, "chemistry", report.Domains[0].Domain)
}
