// Package pipeline verifies claims end to end: domain rules, fabrication
// check, query expansion, evidence search, ranking, scoring and narration.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/evidentia/internal/evidence"
	"github.com/ppiankov/evidentia/internal/fabrication"
	"github.com/ppiankov/evidentia/internal/metrics"
	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/narrate"
	"github.com/ppiankov/evidentia/internal/query"
	"github.com/ppiankov/evidentia/internal/rules"
	"github.com/ppiankov/evidentia/internal/score"
	"github.com/ppiankov/evidentia/internal/source"
)

// ContradictionResults is the result cap for each contradiction query
const ContradictionResults = 2

// Short-circuit reasons recorded in metrics
const (
	ReasonDomainViolation = "domain_violation"
	ReasonFabrication     = "fabrication"
)

var contradictionMarkers = []string{"not supported", "debunked", "disproven", "no evidence"}

// Searcher issues queries to a set of evidence sources
type Searcher interface {
	fabrication.Searcher
	Names() []string
	SearchAll(ctx context.Context, queries []string, maxResults int) []model.EvidenceRecord
}

// Options configures a Verifier. Zero values select defaults.
type Options struct {
	MaxResults         int           // per source per query
	ClaimDeadline      time.Duration // bounds fabrication checks and evidence search
	RelevanceThreshold float64
	Contradictions     Searcher // nil searches contradictions with the main searcher
	Rules              *rules.Engine
	Narrator           narrate.Narrator
	Metrics            *metrics.Metrics
	Logger             *slog.Logger
}

// Verifier runs the verification pipeline for one claim at a time and is
// safe for concurrent use.
type Verifier struct {
	searcher       Searcher
	contradictions Searcher
	expander       *query.Expander
	engine         *rules.Engine
	detector       *fabrication.Detector
	reranker       *evidence.Reranker
	scorer         *score.Scorer
	narrator       narrate.Narrator
	metrics        *metrics.Metrics
	logger         *slog.Logger
	maxResults     int
	deadline       time.Duration
}

// NewVerifier creates a verifier over searcher
func NewVerifier(searcher Searcher, opts Options) *Verifier {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Contradictions == nil {
		opts.Contradictions = searcher
	}
	if opts.Rules == nil {
		opts.Rules = rules.NewEngine()
	}
	if opts.Narrator == nil {
		opts.Narrator = narrate.NewTemplate()
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = model.DefaultConfig().Search.MaxResultsPerSource
	}

	return &Verifier{
		searcher:       searcher,
		contradictions: opts.Contradictions,
		expander:       query.NewExpander(),
		engine:         opts.Rules,
		detector:       fabrication.NewDetector(searcher, opts.Logger),
		reranker:       evidence.NewReranker(opts.RelevanceThreshold),
		scorer:         score.NewScorer(),
		narrator:       opts.Narrator,
		metrics:        opts.Metrics,
		logger:         opts.Logger,
		maxResults:     opts.MaxResults,
		deadline:       opts.ClaimDeadline,
	}
}

// Verify builds a claim from text and verifies it. The only error is model.ErrEmptyClaim.
func (v *Verifier) Verify(ctx context.Context, text string) (*model.VerificationResult, error) {
	claim, err := model.NewClaim(text)
	if err != nil {
		return nil, err
	}
	return v.VerifyClaim(ctx, claim), nil
}

// VerifyClaim verifies claim. Source failures and an expired deadline degrade
// the evidence set; they never fail the verification.
func (v *Verifier) VerifyClaim(ctx context.Context, claim model.Claim) *model.VerificationResult {
	start := time.Now()

	res := v.verify(ctx, claim)

	elapsed := time.Since(start)
	v.metrics.ObserveVerification(string(res.Classification), elapsed)
	v.logger.Info("claim verified",
		"claim", claim.Original,
		"classification", res.Classification,
		"score", res.ConfidenceScore,
		"elapsed", elapsed)
	return res
}

func (v *Verifier) verify(ctx context.Context, claim model.Claim) *model.VerificationResult {
	report := v.engine.Check(claim.Original)
	if report.CriticalViolations {
		v.metrics.ShortCircuit(ReasonDomainViolation)
		v.logger.Debug("domain rules rejected claim", "violations", len(report.Violations()))
		return implausible(claim, report)
	}

	searchCtx := ctx
	if v.deadline > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, v.deadline)
		defer cancel()
	}

	findings := v.detector.Detect(searchCtx, claim.Original)
	if err := searchCtx.Err(); err != nil && len(findings) > 0 {
		// zero hits from cancelled searches prove nothing
		v.logger.Warn("fabrication check incomplete, ignoring findings", "error", err)
		findings = nil
	}
	if len(findings) > 0 {
		v.metrics.ShortCircuit(ReasonFabrication)
		return fabricated(claim, findings, v.searcher.Names())
	}

	queries := v.expander.Expand(claim.Normalized)
	contraQueries := ContradictionQueries(claim.Normalized)

	var raw, contraRaw []model.EvidenceRecord
	var g errgroup.Group
	g.Go(func() error {
		raw = v.searcher.SearchAll(searchCtx, queries, v.maxResults)
		return nil
	})
	g.Go(func() error {
		contraRaw = v.contradictions.SearchAll(searchCtx, contraQueries, ContradictionResults)
		return nil
	})
	_ = g.Wait()

	ranked := v.reranker.Rank(claim.Normalized, evidence.Dedupe(evidence.NormalizeAll(raw)))
	top := evidence.DedupeByTitle(evidence.Top(ranked, evidence.TopEvidenceLimit))
	contradictions := toContradictions(evidence.NormalizeAll(contraRaw))

	s := v.scorer.Calculate(top, contradictions)
	res := &model.VerificationResult{
		OriginalClaim:   claim.Original,
		NormalizedClaim: claim.Normalized,
		Classification: score.Classify(score.Verdict{
			Score:    s.Value,
			Evidence: top,
		}),
		ConfidenceScore:   s.Value,
		ConfidenceColor:   score.Color(s.Value),
		Drivers:           s.Drivers,
		TopEvidence:       top,
		FabricatedTerms:   []string{},
		ReplicationStatus: score.Replication(top),
		Contradictions:    contradictions,
		DomainViolations:  report.Violations(),
		Queries:           queries,
	}

	narration, err := v.narrator.Narrate(ctx, res)
	if err != nil {
		v.logger.Warn("narrator failed", "narrator", v.narrator.Name(), "error", err)
		narration, _ = narrate.NewTemplate().Narrate(ctx, res)
	}
	res.ExplanationPlain = narration.Explanation
	res.SuggestedCorrections = narration.Corrections
	res.SearchActions = fmt.Sprintf("Searched %s for '%s' using %d queries (%d records, %d relevant). Contradiction search: %d queries. Domain-rule validation: %s.",
		displayNames(v.searcher.Names()), claim.Normalized, len(queries), len(ranked), len(top),
		len(contraQueries), ruleOutcome(report))
	return res
}

// ContradictionQueries pairs the claim with each negation marker
func ContradictionQueries(claim string) []string {
	queries := make([]string, len(contradictionMarkers))
	for i, m := range contradictionMarkers {
		queries[i] = fmt.Sprintf("%q AND %q", claim, m)
	}
	return queries
}

func implausible(claim model.Claim, report rules.Report) *model.VerificationResult {
	res := &model.VerificationResult{
		OriginalClaim:     claim.Original,
		NormalizedClaim:   claim.Normalized,
		Classification:    model.ClassPhysicallyImplausible,
		ConfidenceScore:   0,
		ConfidenceColor:   score.Color(0),
		Drivers:           []string{narrate.ImplausibleDriver},
		TopEvidence:       []model.EvidenceRecord{},
		FabricatedTerms:   []string{},
		ReplicationStatus: model.ReplicationNone,
		Contradictions:    []model.ContradictionRecord{},
		SearchActions:     "Domain-rule validation short-circuited search due to physical impossibility",
		DomainViolations:  report.Violations(),
	}
	res.ExplanationPlain = narrate.Explain(res)
	res.SuggestedCorrections = narrate.Corrections(res)
	return res
}

func fabricated(claim model.Claim, findings []model.FabricationFinding, sources []string) *model.VerificationResult {
	terms := make([]string, len(findings))
	for i, f := range findings {
		terms[i] = f.Term
	}
	joined := strings.Join(terms, ", ")

	res := &model.VerificationResult{
		OriginalClaim:     claim.Original,
		NormalizedClaim:   claim.Normalized,
		Classification:    model.ClassFabricated,
		ConfidenceScore:   0,
		ConfidenceColor:   score.Color(0),
		Drivers:           []string{"Fabricated terms detected: " + joined},
		TopEvidence:       []model.EvidenceRecord{},
		FabricatedTerms:   terms,
		ReplicationStatus: model.ReplicationNone,
		Contradictions:    []model.ContradictionRecord{},
		SearchActions:     fmt.Sprintf("Searched %s for fabricated terms: %s. All returned zero hits.", displayNames(sources), joined),
		Findings:          findings,
	}
	res.ExplanationPlain = narrate.Explain(res)
	res.SuggestedCorrections = narrate.Corrections(res)
	return res
}

func toContradictions(records []model.EvidenceRecord) []model.ContradictionRecord {
	out := make([]model.ContradictionRecord, len(records))
	for i, r := range records {
		out[i] = model.NewContradiction(r)
	}
	return evidence.DedupeContradictions(out)
}

func displayNames(names []string) string {
	display := make([]string, len(names))
	for i, n := range names {
		display[i] = source.DisplayName(n)
	}
	return strings.Join(display, ", ")
}

func ruleOutcome(report rules.Report) string {
	violations := report.Violations()
	if len(violations) == 0 {
		return "passed"
	}
	ids := make([]string, len(violations))
	for i, v := range violations {
		ids[i] = v.RuleID
	}
	return "passed with warnings (" + strings.Join(ids, ", ") + ")"
}
