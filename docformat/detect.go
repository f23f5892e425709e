// Package docformat provides input file format detection for the intake
// pipeline. Only the formats the pipeline can process are recognized;
// anything else is Unknown and must be rejected before processing.
package docformat

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// PNG indicates a PNG image.
	PNG
	// JPEG indicates a JPEG image.
	JPEG
	// BMP indicates a BMP image.
	BMP
	// TIFF indicates a TIFF image.
	TIFF
	// TXT indicates a plain-text file.
	TXT
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case BMP:
		return "BMP"
	case TIFF:
		return "TIFF"
	case TXT:
		return "TXT"
	case DOCX:
		return "DOCX"
	default:
		return "Unknown"
	}
}

// IsImage reports whether the format is a single-page raster image.
func (f Format) IsImage() bool {
	switch f {
	case PNG, JPEG, BMP, TIFF:
		return true
	default:
		return false
	}
}

// Detect determines file format from the filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return PDF
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	case ".bmp":
		return BMP
	case ".tif", ".tiff":
		return TIFF
	case ".txt":
		return TXT
	case ".docx":
		return DOCX
	default:
		return Unknown
	}
}

// DetectFromMagic checks file magic bytes to determine format. This is
// more reliable than extension-based detection for binary formats, but
// cannot identify plain text. Returns Unknown if the format cannot be
// determined from magic bytes alone.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return PDF
	case bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}):
		return PNG
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return JPEG
	case bytes.HasPrefix(data, []byte("BM")):
		return BMP
	case bytes.HasPrefix(data, []byte{0x49, 0x49, 0x2A, 0x00}), bytes.HasPrefix(data, []byte{0x4D, 0x4D, 0x00, 0x2A}):
		return TIFF
	case bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x03, 0x04}):
		// ZIP archive; DOCX is the only ZIP-based format the pipeline
		// accepts, and the docx reader validates the archive contents.
		return DOCX
	}

	return Unknown
}
