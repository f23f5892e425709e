package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"github.com/tsawler/intake/doctype"
	"github.com/tsawler/intake/imaging"
)

// extractPDF rasterizes each page of a PDF and recognizes it with the
// layout-appropriate strategy. Pages are processed independently: a
// recognition failure on one page yields empty text for that page and
// does not abort the rest. Page texts are joined with the configured
// page-break marker.
func (e *Extractor) extractPDF(ctx context.Context, path string, category doctype.Category) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	parts := make([]string, 0, pageCount)

	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(pageNum, e.config.DPI)
		if err != nil {
			e.logger.Warn("failed to rasterize PDF page",
				zap.Int("page", pageNum+1), zap.Error(err))
			parts = append(parts, "")
			continue
		}

		text := e.recognizeGray(imaging.ToGray(img), category)
		parts = append(parts, text)

		e.logger.Debug("processed PDF page",
			zap.Int("page", pageNum+1),
			zap.Int("pages", pageCount),
			zap.Int("text_length", len(text)))
	}

	return strings.Join(parts, e.config.PageBreak), nil
}
