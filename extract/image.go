package extract

import (
	"bytes"
	"fmt"
	"image"
	"os"

	// Image decoders for the supported raster formats.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/tsawler/intake/imaging"
)

// extractImage recognizes a single-page image file whole. Image uploads
// are photographs or scans of one document page, so segmentation is
// never applied; the structured-layout branch exists for multi-page PDF
// bundles.
func (e *Extractor) extractImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image file: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("could not decode image file: %w", err)
	}

	return e.ocrPage(imaging.ToGray(img)), nil
}
