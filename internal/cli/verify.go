package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/evidentia/internal/model"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <claim>",
	Short: "Verify a single claim against the literature",
	Long: `Verify checks one claim:
- Domain rules reject physically implausible statements
- Invented technical terms are flagged as fabricated
- Expanded queries search every configured catalog
- Contradicting work lowers the confidence score

Example:
  evidentia verify "Regular exercise improves cardiovascular health"
  evidentia verify --format text --sources crossref,europepmc "Vitamin D prevents fractures"
  evidentia verify --llm-provider ollama --llm-model llama3.1:8b "Coffee causes cancer"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	addVerifyFlags(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
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

	res, err := s.verifier.Verify(commandContext(cmd), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	if err := writeResults(cmd.OutOrStdout(), []*model.VerificationResult{res}, cfg.Output.Pretty); err != nil {
		return err
	}
	if showMetrics {
		return s.dumpMetrics(os.Stderr)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
