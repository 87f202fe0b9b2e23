package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/worker"
)

var (
	concurrency  int
	outputPath   string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify many claims from a file in parallel",
	Long: `Batch verifies claims concurrently:
- Read claims from input file (one per line, # comments allowed)
- Verify claims in parallel with a configurable worker count
- Each claim fans its searches out on the shared, rate-limited sources
- Write all results as one JSON array (or text)

Example:
  evidentia batch claims.txt
  evidentia batch claims.txt --concurrency 4 --output results.json
  evidentia batch claims.txt --timeout 30m --format text`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addVerifyFlags(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 2, "number of claims verified at once")
	batchCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write results to this file instead of stdout")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	claims, err := worker.ReadClaimsFromFile(file)
	if err != nil {
		return fmt.Errorf("read claims: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Evidentia Batch Verification\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Claims:       %d\n", len(claims))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	return verifyMany(cmd, claims)
}

// verifyMany runs claims through a batch verifier and writes every result
func verifyMany(cmd *cobra.Command, claims []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyVerifyFlags(cmd, cfg); err != nil {
		return err
	}

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx, cancel := context.WithTimeout(commandContext(cmd), batchTimeout)
	defer cancel()

	results := worker.NewBatchVerifier(s.verifier, concurrency).VerifyClaims(ctx, claims)

	var verified []*model.VerificationResult
	failures := 0
	for _, r := range results {
		if r.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Claim, r.Error)
			continue
		}
		verified = append(verified, r.Result)
		fmt.Fprintf(os.Stderr, "✓ %-22s %3d/100  %s\n", r.Result.Classification, r.Result.ConfidenceScore, r.Claim)
	}

	var w io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	if verified == nil {
		verified = []*model.VerificationResult{}
	}
	if outputFormat == "json" {
		if err := writeJSON(w, verified, cfg.Output.Pretty); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	} else if err := writeResults(w, verified, cfg.Output.Pretty); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d claims\n", len(results))
	fmt.Fprintf(os.Stderr, "  Verified:  %d\n", len(verified))
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failures)
	if outputPath != "" {
		fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputPath)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if showMetrics {
		return s.dumpMetrics(os.Stderr)
	}
	return nil
}
