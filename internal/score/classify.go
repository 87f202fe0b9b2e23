package score

import "github.com/ppiankov/evidentia/internal/model"

// Classification thresholds
const (
	FullySupportedMin     = 90
	PartiallySupportedMin = 50
)

// Verdict carries everything the classifier looks at
type Verdict struct {
	Score             int
	Fabricated        bool // any fabrication finding
	CriticalViolation bool // any critical domain rule fired
	Evidence          []model.EvidenceRecord
}

// Classify maps a verdict to a label. The first matching state wins.
func Classify(v Verdict) model.Classification {
	switch {
	case v.Fabricated:
		return model.ClassFabricated
	case v.CriticalViolation:
		return model.ClassPhysicallyImplausible
	case v.Score >= FullySupportedMin && hasPeerReviewed(v.Evidence):
		return model.ClassFullySupported
	case v.Score >= PartiallySupportedMin:
		return model.ClassPartiallySupported
	default:
		return model.ClassUnsupported
	}
}

// Color maps a score to its display colour
func Color(score int) string {
	switch {
	case score <= 0:
		return "red"
	case score <= 30:
		return "orange"
	case score <= 70:
		return "yellow"
	default:
		return "green"
	}
}

func hasPeerReviewed(evidence []model.EvidenceRecord) bool {
	for _, r := range evidence {
		if r.IsPeerReviewed() {
			return true
		}
	}
	return false
}
