// Package intake processes student-application documents: uploaded
// files are dispatched by format, scanned documents are deskewed,
// optionally segmented into layout regions and recognized with OCR, and
// the extracted text is run through a language model whose output is
// repaired into structured application fields.
//
// Basic usage:
//
//	p, err := intake.New(intake.DefaultConfig())
//	if err != nil {
//	    // Tesseract or a language pack is missing
//	}
//	defer p.Close()
//
//	result, err := p.ExtractDocument(ctx, "passport.pdf", "passport")
//
// Processing a whole application additionally needs a reachable model
// server:
//
//	record, err := p.ProcessApplication(ctx, map[string]string{
//	    "passport": "docs/passport.pdf",
//	    "cv":       "docs/cv.docx",
//	})
//
// The lower-level packages (extract, segment, repair, aggregate) are
// also available for advanced use.
package intake

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tsawler/intake/aggregate"
	"github.com/tsawler/intake/doctype"
	"github.com/tsawler/intake/extract"
	"github.com/tsawler/intake/llm"
	"github.com/tsawler/intake/ocr"
	"github.com/tsawler/intake/pipeline"
)

// Processor ties the extraction and model stages together for one
// worker. A Processor owns one OCR engine instance and is not safe for
// concurrent use; parallel document processing requires one Processor
// per worker.
type Processor struct {
	ocrClient *ocr.Client
	extractor *extract.Extractor
	llmClient *llm.Client
	pipe      *pipeline.Processor
	logger    *zap.Logger
}

// New creates a Processor. The OCR engine and its language packs are
// verified at construction time: a missing engine is a deployment
// problem and surfaces here as an error rather than as failed
// extractions later.
func New(cfg Config) (*Processor, error) {
	cfg = cfg.normalize()

	client, err := ocr.NewWithLanguages(cfg.Languages)
	if err != nil {
		return nil, fmt.Errorf("OCR engine unavailable: %w", err)
	}

	p := newWithRecognizer(client, cfg)
	p.ocrClient = client
	return p, nil
}

// NewWithRecognizer creates a Processor around a custom OCR recognizer.
// Intended for tests and for callers that manage engine lifecycle
// themselves; Close does not close the recognizer.
func NewWithRecognizer(rec extract.Recognizer, cfg Config) *Processor {
	return newWithRecognizer(rec, cfg.normalize())
}

func newWithRecognizer(rec extract.Recognizer, cfg Config) *Processor {
	extractor := extract.NewWithConfig(rec, cfg.Extract)
	extractor.SetLogger(cfg.Logger)
	extractor.SetDeskewConfig(cfg.Deskew)
	extractor.SetSegmenterConfig(cfg.Segment)

	llmClient := llm.NewClient(cfg.LLM)
	llmClient.SetLogger(cfg.Logger)

	pipe := pipeline.New(llmClient)
	pipe.SetLogger(cfg.Logger)

	return &Processor{
		extractor: extractor,
		llmClient: llmClient,
		pipe:      pipe,
		logger:    cfg.Logger,
	}
}

// Close releases the OCR engine.
func (p *Processor) Close() error {
	if p.ocrClient != nil {
		return p.ocrClient.Close()
	}
	return nil
}

// Verify checks that the model server is reachable. Call once at
// startup before processing applications; extraction-only use does not
// need it.
func (p *Processor) Verify(ctx context.Context) error {
	return p.llmClient.Ping(ctx)
}

// ExtractDocument extracts text from one document. The label is the
// document's category ("passport", "degree", ...); an empty or unknown
// label processes the document as uncategorized, which always uses
// whole-page recognition.
func (p *Processor) ExtractDocument(ctx context.Context, path, label string) (extract.Result, error) {
	category, _ := doctype.Parse(label)
	return p.extractor.Extract(ctx, path, category)
}

// ProcessApplication extracts every document of an application and runs
// the model pipeline over the results, returning the merged application
// record. Documents map category labels to file paths. A document that
// fails extraction is logged and skipped; it does not block its
// siblings. Unknown category labels are rejected.
func (p *Processor) ProcessApplication(ctx context.Context, documents map[string]string) (*aggregate.Record, error) {
	bundle := pipeline.Bundle{}

	for label, path := range documents {
		category, ok := doctype.Parse(label)
		if !ok {
			return nil, fmt.Errorf("unknown document category: %q", label)
		}

		result, err := p.extractor.Extract(ctx, path, category)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Error("document extraction failed",
				zap.String("category", label),
				zap.String("path", path),
				zap.Error(err))
			continue
		}

		bundle.Add(pipeline.DocumentFromResult(result))
	}

	return p.pipe.ProcessApplication(ctx, bundle)
}
