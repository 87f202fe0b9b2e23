package rules

import (
	"regexp"
	"strconv"

	"github.com/ppiankov/evidentia/internal/model"
)

// Rule domains, evaluated in this order
const (
	DomainPhysics      = "physics"
	DomainNeuroscience = "neuroscience"
	DomainStatistics   = "statistics"
)

const (
	descPhysics      = "Claim violates fundamental physical laws"
	descNeuroscience = "Claim violates known neuroscience principles"
	descStatistics   = "Claim violates fundamental statistical principles"
)

// comparator introduces a reported statistic
const comparator = `\s*(?:\bof\b|=|\bis\b|\bwas\b|:)\s*`

// number captures a signed decimal, an optional percent sign and the word after it
const number = `(-?\d+(?:\.\d+)?)(?:\s*(%))?(?:\s+([a-z]+))?`

// connectives may follow a coefficient; any other word means the number counts that word
// ("a correlation of 3 genetic markers", "the probability of 5 year mortality")
var connectives = map[string]bool{
	"between": true, "among": true, "with": true, "for": true, "in": true, "across": true,
	"and": true, "at": true, "on": true, "from": true, "to": true, "per": true,
	"was": true, "is": true, "were": true, "when": true, "if": true,
}

// DefaultRules is the built-in rule table
func DefaultRules() []Rule {
	return []Rule{
		// Physics
		critical(DomainPhysics, "perpetual_motion", descPhysics, `perpetual.*motion.*machine`),
		critical(DomainPhysics, "energy_from_nothing", descPhysics, `energy.*from.*nothing`),
		critical(DomainPhysics, "faster_than_light", descPhysics, `faster.*than.*light.*(travel|communication|signal|information)`),
		critical(DomainPhysics, "instantaneous_transfer", descPhysics, `instantaneous.*(information|knowledge|data|signal).*(transfer|transmission)`),
		critical(DomainPhysics, "energy_conservation", descPhysics, `violates.*conservation.*of.*energy`),
		critical(DomainPhysics, "thermodynamics", descPhysics, `breaks.*thermodynamics`),
		warning(DomainPhysics, "cold_fusion", "Claim relies on a disputed physical phenomenon", `cold\s+fusion`),

		// Neuroscience
		critical(DomainNeuroscience, "memory_transfer", descNeuroscience, `instantaneous.*memory.*transfer`),
		critical(DomainNeuroscience, "telepathy", descNeuroscience, `telepathic.*communication|\btelepathy\b`),
		critical(DomainNeuroscience, "mind_reading", descNeuroscience, `reading.*minds.*directly`),
		critical(DomainNeuroscience, "substrate_free_upload", descNeuroscience, `consciousness.*upload.*without.*technology`),
		warning(DomainNeuroscience, "panacea", "Claim asserts a universal cure", `\bcures?\s+(all|every|everything)\b`),

		// Statistics
		critical(DomainStatistics, "correlation_out_of_range", descStatistics, `correlation.*greater.*than.*1`),
		numeric(DomainStatistics, "correlation_out_of_range", descStatistics,
			`\bcorrelation(?:\s+coefficient)?`+comparator+number, correlationOutOfRange),
		critical(DomainStatistics, "probability_out_of_range", descStatistics, `probability.*greater.*than.*1`),
		numeric(DomainStatistics, "probability_out_of_range", descStatistics,
			`\bprobability(?:\s+of\s+[a-z]+(?:\s+[a-z]+)?)?`+comparator+number, probabilityOutOfRange),
		critical(DomainStatistics, "negative_variance", descStatistics, `negative.*variance|variance\s*(?:of|=|is|was)?\s*-\d`),
		critical(DomainStatistics, "negative_standard_deviation", descStatistics,
			`standard.*deviation.*negative|negative.*standard.*deviation|standard\s+deviation\s*(?:of|=|is|was)?\s*-\d`),
	}
}

func critical(domain, id, description, pattern string) Rule {
	return Rule{Domain: domain, ID: id, Description: description, Severity: model.SeverityCritical, Pattern: regexp.MustCompile(pattern)}
}

func warning(domain, id, description, pattern string) Rule {
	return Rule{Domain: domain, ID: id, Description: description, Severity: model.SeverityWarning, Pattern: regexp.MustCompile(pattern)}
}

func numeric(domain, id, description, pattern string, check func([]string) bool) Rule {
	r := critical(domain, id, description, pattern)
	r.Check = check
	return r
}

// statistic parses the value of a numeric match; ok is false when the number
// quantifies a following noun rather than reporting a coefficient
func statistic(groups []string) (value float64, percent, ok bool) {
	if next := groups[3]; next != "" && !connectives[next] {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(groups[1], 64)
	if err != nil {
		return 0, false, false
	}
	return v, groups[2] == "%", true
}

// correlationOutOfRange fires for coefficients outside [-1, 1]
func correlationOutOfRange(groups []string) bool {
	v, percent, ok := statistic(groups)
	if !ok || percent {
		return false
	}
	return v < -1 || v > 1
}

// probabilityOutOfRange fires for probabilities outside [0, 1] or [0%, 100%]
func probabilityOutOfRange(groups []string) bool {
	v, percent, ok := statistic(groups)
	if !ok {
		return false
	}
	if percent {
		return v < 0 || v > 100
	}
	return v < 0 || v > 1
}
