package model

// Classification is the discrete verdict for a claim
type Classification string

const (
	ClassFabricated            Classification = "Fabricated"
	ClassPhysicallyImplausible Classification = "Physically Implausible"
	ClassFullySupported        Classification = "Fully Supported"
	ClassPartiallySupported    Classification = "Partially Supported"
	ClassUnsupported           Classification = "Unsupported"
)

// Severity of a domain rule violation
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// DomainViolation is one fired plausibility rule
type DomainViolation struct {
	Domain      string   `json:"domain"`
	RuleID      string   `json:"rule"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// FindingConfidence grades how sure the detector is that a term is invented
type FindingConfidence string

const (
	FindingLow    FindingConfidence = "low"
	FindingMedium FindingConfidence = "medium"
	FindingHigh   FindingConfidence = "high"
)

// FabricationFinding records a term with no literature footprint
type FabricationFinding struct {
	Term           string            `json:"term"`
	NormalizedTerm string            `json:"normalized_term"`
	ExactHitCount  int               `json:"total_exact_hits"`
	FuzzyHitCount  int               `json:"total_fuzzy_hits"`
	Confidence     FindingConfidence `json:"confidence"`
}

// Replication status values
const (
	ReplicationNone         = "none"
	ReplicationOriginalOnly = "original_only"
	ReplicationPartial      = "partial"
	ReplicationReplicated   = "replicated"
)

// VerificationResult is the terminal record produced for one claim.
// The JSON field set is fixed; auxiliary detail is carried in untagged fields.
type VerificationResult struct {
	OriginalClaim        string                `json:"original_claim"`
	NormalizedClaim      string                `json:"normalized_claim"`
	Classification       Classification        `json:"classification"`
	ConfidenceScore      int                   `json:"confidence_score"`
	ConfidenceColor      string                `json:"confidence_color"`
	Drivers              []string              `json:"drivers"`
	TopEvidence          []EvidenceRecord      `json:"top_evidence"`
	FabricatedTerms      []string              `json:"fabricated_terms"`
	ReplicationStatus    string                `json:"replication_status"`
	Contradictions       []ContradictionRecord `json:"contradictions"`
	ExplanationPlain     string                `json:"explanation_plain"`
	SuggestedCorrections string                `json:"suggested_corrections"`
	SearchActions        string                `json:"search_actions"`
	DomainViolations     []DomainViolation     `json:"domain_violations,omitempty"`

	Findings []FabricationFinding `json:"-"` // Per-term search evidence behind FabricatedTerms
	Queries  []string             `json:"-"` // Expanded queries actually issued
}
