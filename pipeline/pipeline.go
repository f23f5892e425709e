// Package pipeline runs the language model extraction stage over a
// categorized bundle of application documents: for each category it
// builds a prompt from the document text, requests a completion, repairs
// the model output into a field set, and merges the fields into the
// application record. A final evaluation pass scores the merged profile.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/tsawler/intake/aggregate"
	"github.com/tsawler/intake/doctype"
	"github.com/tsawler/intake/extract"
	"github.com/tsawler/intake/llm"
	"github.com/tsawler/intake/repair"
)

// Document is one categorized document's extracted content.
type Document struct {
	// ID is the extraction identifier.
	ID string

	// Category is the document's category.
	Category doctype.Category

	// Content is the extracted text.
	Content string

	// Language is the detected language code of the content.
	Language string
}

// DocumentFromResult converts an extraction result into a pipeline
// document.
func DocumentFromResult(r extract.Result) Document {
	return Document{
		ID:       r.DocumentID,
		Category: r.Category,
		Content:  r.Text,
		Language: r.Language,
	}
}

// Bundle groups an application's documents by category. Only the first
// document of each category is consulted; applications upload one
// document per category.
type Bundle map[doctype.Category][]Document

// Add appends a document to its category.
func (b Bundle) Add(doc Document) {
	b[doc.Category] = append(b[doc.Category], doc)
}

// Processor runs the extraction-and-merge loop for one application.
type Processor struct {
	completer  llm.Completer
	parser     *repair.Parser
	aggregator *aggregate.Aggregator
	logger     *zap.Logger
}

// New creates a processor using the given completion client.
func New(completer llm.Completer) *Processor {
	return &Processor{
		completer:  completer,
		parser:     repair.NewParser(),
		aggregator: aggregate.NewAggregator(),
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for the processor and its stages.
func (p *Processor) SetLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}
	p.logger = logger
	p.parser.SetLogger(logger)
	p.aggregator.SetLogger(logger)
}

// ProcessApplication runs every document category through the model and
// returns the merged application record. A completion failure for one
// category is logged and leaves that category's fields at their
// defaults; it does not abort the remaining categories. The error return
// is reserved for context cancellation.
func (p *Processor) ProcessApplication(ctx context.Context, bundle Bundle) (*aggregate.Record, error) {
	rec := aggregate.NewRecord()

	for _, category := range doctype.Categories() {
		if err := ctx.Err(); err != nil {
			return rec, err
		}
		p.processCategory(ctx, rec, category, bundle)
	}

	// Evaluation runs last, over the profile merged from all categories.
	fields := p.extractFields(ctx, doctype.Evaluation, buildEvaluationPrompt(rec))
	p.aggregator.Apply(rec, doctype.Evaluation, fields)

	return rec, nil
}

// processCategory handles one document category: absent categories are
// skipped, present-but-empty documents record a fixed default summary,
// and documents with content go through the model.
func (p *Processor) processCategory(ctx context.Context, rec *aggregate.Record, category doctype.Category, bundle Bundle) {
	docs := bundle[category]
	if len(docs) == 0 {
		return
	}

	doc := docs[0]
	if doc.Content == "" {
		p.logger.Info("no content for category, recording default",
			zap.String("category", category.String()),
			zap.String("document_id", doc.ID))
		p.applyEmptyDefault(rec, category)
		return
	}

	p.logger.Debug("processing category",
		zap.String("category", category.String()),
		zap.String("document_id", doc.ID),
		zap.String("language", doc.Language),
		zap.Int("content_length", len(doc.Content)))

	fields := p.extractFields(ctx, category, buildPrompt(category, doc.Content))
	p.aggregator.Apply(rec, category, fields)
}

// extractFields requests a completion and repairs it into a field set.
// On completion failure every expected field comes back nil, so the
// merge leaves existing values untouched.
func (p *Processor) extractFields(ctx context.Context, category doctype.Category, prompt string) repair.FieldSet {
	output, err := p.completer.Complete(ctx, prompt)
	if err != nil {
		p.logger.Warn("completion failed for category",
			zap.String("category", category.String()),
			zap.Error(err))
		output = ""
	}
	return p.parser.Parse(output, category.Fields())
}

// applyEmptyDefault records the category's fixed no-data summary.
func (p *Processor) applyEmptyDefault(rec *aggregate.Record, category doctype.Category) {
	text := emptyContentDefault(category)
	if text == "" {
		return
	}

	fields := repair.FieldSet{}
	switch category {
	case doctype.CV:
		fields["cv_summary"] = text
	case doctype.MotivationLetter:
		fields["motivation_letter_summary"] = text
	case doctype.RecommendationLetter:
		fields["recommendation_letter_summary"] = text
	case doctype.LanguageCertificate:
		fields["russian_language_level"] = text
	case doctype.Achievements:
		fields["achievements_summary"] = text
	case doctype.AdditionalDocuments:
		fields["additional_documents_summary"] = text
	}
	p.aggregator.Apply(rec, category, fields)
}
