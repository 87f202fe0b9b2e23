package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/evidentia/internal/extract"
	"github.com/ppiankov/evidentia/internal/model"
)

var (
	extractHTML   bool
	extractVerify bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file|->",
	Short: "Split text or HTML into claims, optionally verifying them",
	Long: `Extract splits a document into sentence-level claims. Sentences of
three words or fewer are skipped. HTML is detected from the .html/.htm
extension or forced with --html.

Example:
  evidentia extract article.txt
  evidentia extract page.html --verify --format text
  cat notes.txt | evidentia extract -`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	addVerifyFlags(extractCmd)

	extractCmd.Flags().BoolVar(&extractHTML, "html", false, "treat input as HTML")
	extractCmd.Flags().BoolVar(&extractVerify, "verify", false, "verify every extracted claim")
	extractCmd.Flags().IntVar(&concurrency, "concurrency", 2, "number of claims verified at once (with --verify)")
	extractCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for verification (with --verify)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	claims, err := extractClaims(string(data), extractHTML || isHTMLPath(path))
	if err != nil {
		return err
	}

	if !extractVerify {
		if claims == nil {
			claims = []model.Claim{}
		}
		return writeJSON(cmd.OutOrStdout(), claims, true)
	}

	texts := make([]string, len(claims))
	for i, c := range claims {
		texts[i] = c.Original
	}
	fmt.Fprintf(os.Stderr, "Extracted %d claims from %s\n", len(texts), path)
	return verifyMany(cmd, texts)
}

func extractClaims(content string, html bool) ([]model.Claim, error) {
	extractor := extract.NewClaimExtractor()
	if html {
		claims, err := extractor.ExtractHTML(content)
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		return claims, nil
	}
	return extractor.Extract(content), nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func isHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
