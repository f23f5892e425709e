package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	extractCategory string
	extractOutput   string
	extractTimeout  time.Duration
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract text from a single document",
	Long: `Extract text from one document and print the extraction result as
JSON. PDF scans and images go through OCR; DOCX and plain-text files
are read directly.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractCategory, "category", "t", "", "document category (passport, cv, degree, ...)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "write result to file instead of stdout")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 5*time.Minute, "extraction timeout")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer cfg.Logger.Sync()

	p, err := newProcessor(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	result, err := p.ExtractDocument(ctx, args[0], extractCategory)
	if err != nil {
		return fmt.Errorf("extract %s: %w", args[0], err)
	}

	out, err := json.MarshalIndent(map[string]string{
		"document_id": result.DocumentID,
		"category":    result.Category.String(),
		"language":    result.Language,
		"text":        result.Text,
	}, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(extractOutput, out)
}
