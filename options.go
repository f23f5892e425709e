package intake

import (
	"go.uber.org/zap"

	"github.com/tsawler/intake/extract"
	"github.com/tsawler/intake/imaging"
	"github.com/tsawler/intake/llm"
	"github.com/tsawler/intake/ocr"
	"github.com/tsawler/intake/segment"
)

// Config holds configuration for a Processor. Zero values fall back to
// the package defaults.
type Config struct {
	// Languages is the "+"-separated OCR language set.
	Languages string

	// Extract holds extraction parameters (rasterization DPI, join
	// markers).
	Extract extract.Config

	// Segment holds region segmentation thresholds.
	Segment segment.Config

	// Deskew holds the skew-search parameters.
	Deskew imaging.DeskewConfig

	// LLM holds the Ollama client configuration.
	LLM llm.Config

	// Logger receives pipeline diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultConfig returns the default processor configuration.
func DefaultConfig() Config {
	return Config{
		Languages: ocr.DefaultLanguages,
		Extract:   extract.DefaultConfig(),
		Segment:   segment.DefaultConfig(),
		Deskew:    imaging.DefaultDeskewConfig(),
	}
}

// normalize fills zero-value config fields with defaults.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.Languages == "" {
		c.Languages = def.Languages
	}
	if c.Extract == (extract.Config{}) {
		c.Extract = def.Extract
	}
	if c.Segment == (segment.Config{}) {
		c.Segment = def.Segment
	}
	if c.Deskew == (imaging.DeskewConfig{}) {
		c.Deskew = def.Deskew
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
