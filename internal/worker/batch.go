package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

// Verifier defines the interface for verifying a single claim
type Verifier interface {
	Verify(ctx context.Context, claim string) (*model.VerificationResult, error)
}

// ClaimJob verifies one claim
type ClaimJob struct {
	Claim    string
	Verifier Verifier
}

// Execute executes the verification job
func (j *ClaimJob) Execute(ctx context.Context) Result {
	result, err := j.Verifier.Verify(ctx, j.Claim)
	return &ClaimResult{Claim: j.Claim, Result: result, Error: err}
}

// ClaimResult represents the outcome of a claim job
type ClaimResult struct {
	Claim  string
	Result *model.VerificationResult
	Error  error
}

// GetError returns the error from the claim result
func (r *ClaimResult) GetError() error {
	return r.Error
}

// BatchVerifier verifies many claims concurrently
type BatchVerifier struct {
	verifier Verifier
	pool     *Pool
}

// NewBatchVerifier creates a batch verifier running at most concurrency claims at once
func NewBatchVerifier(verifier Verifier, concurrency int) *BatchVerifier {
	return &BatchVerifier{
		verifier: verifier,
		pool:     NewPool(concurrency),
	}
}

// VerifyClaims verifies claims concurrently; results follow input order.
// Claims not started before ctx ends are reported with ctx's error.
func (b *BatchVerifier) VerifyClaims(ctx context.Context, claims []string) []*ClaimResult {
	if len(claims) == 0 {
		return []*ClaimResult{}
	}

	jobs := make([]Job, len(claims))
	for i, claim := range claims {
		jobs[i] = &ClaimJob{Claim: claim, Verifier: b.verifier}
	}

	done := make(map[string]*ClaimResult, len(claims))
	for _, r := range b.pool.Run(ctx, jobs) {
		cr := r.(*ClaimResult)
		done[cr.Claim] = cr
	}

	results := make([]*ClaimResult, len(claims))
	for i, claim := range claims {
		if cr, ok := done[claim]; ok {
			results[i] = cr
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = fmt.Errorf("claim not processed")
		}
		results[i] = &ClaimResult{Claim: claim, Error: err}
	}
	return results
}

// VerifyFile reads claims from a file and verifies them concurrently
func (b *BatchVerifier) VerifyFile(ctx context.Context, filePath string) ([]*ClaimResult, error) {
	claims, err := ReadClaimsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}
	return b.VerifyClaims(ctx, claims), nil
}

// ReadClaimsFromFile reads claims from a file, one per line.
// Blank lines and lines starting with # are skipped; duplicates are dropped.
func ReadClaimsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			claims = append(claims, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return claims, nil
}
