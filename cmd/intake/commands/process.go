package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/intake"
)

var (
	processOutput  string
	processTimeout time.Duration
)

var processCmd = &cobra.Command{
	Use:   "process <category>=<file> [<category>=<file> ...]",
	Short: "Process a whole application into a structured record",
	Long: `Process the documents of one application and print the merged
application record as JSON. Each argument pairs a document category
with a file path, for example:

  intake process passport=docs/passport.pdf cv=docs/cv.docx degree=docs/degree.pdf

Requires a reachable Ollama server (see the llm config section).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "write record to file instead of stdout")
	processCmd.Flags().DurationVar(&processTimeout, "timeout", 30*time.Minute, "processing timeout")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	documents := make(map[string]string, len(args))
	for _, arg := range args {
		category, path, found := strings.Cut(arg, "=")
		if !found || category == "" || path == "" {
			return fmt.Errorf("invalid document argument %q, want <category>=<file>", arg)
		}
		documents[category] = path
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	if err := p.Verify(ctx); err != nil {
		return fmt.Errorf("model server check failed: %w", err)
	}

	record, err := p.ProcessApplication(ctx, documents)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(processOutput, out)
}

// newProcessor wraps intake.New with a CLI-friendly hint when the OCR
// engine is missing.
func newProcessor(cfg intake.Config) (*intake.Processor, error) {
	p, err := intake.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w (is tesseract installed with the %q language packs?)", err, cfg.Languages)
	}
	return p, nil
}
