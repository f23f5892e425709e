//go:build ocr

// Package ocr provides OCR (Optical Character Recognition) capabilities
// for extracting text from scanned application documents.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract and the English and Russian language packs to be installed on
// the system. On macOS, install via:
//
//	brew install tesseract tesseract-lang
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-rus
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguages is the default recognition language set. Applicant
// documents are supplied in either English or Russian and the language is
// not known before recognition, so both packs are loaded for every call.
const DefaultLanguages = "eng+rus"

// Client wraps Tesseract for OCR operations. A Client reuses one engine
// instance across calls and is not safe for concurrent use; callers that
// process documents in parallel must create one Client per worker.
type Client struct {
	client    *gosseract.Client
	languages string
}

// New creates a new OCR client configured for the default language set.
// It verifies at construction time that the engine and the required
// language packs are available, so a missing deployment dependency
// surfaces as an error here rather than as failed recognitions later.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return NewWithLanguages(DefaultLanguages)
}

// NewWithLanguages creates an OCR client for a specific "+"-separated
// language set (e.g. "eng+rus").
func NewWithLanguages(languages string) (*Client, error) {
	available, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return nil, fmt.Errorf("tesseract engine unavailable: %w", err)
	}

	installed := make(map[string]bool, len(available))
	for _, lang := range available {
		installed[lang] = true
	}
	for _, lang := range strings.Split(languages, "+") {
		if !installed[lang] {
			return nil, fmt.Errorf("tesseract language pack %q not installed (available: %s)",
				lang, strings.Join(available, ", "))
		}
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(strings.Split(languages, "+")...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set languages %q: %w", languages, err)
	}

	return &Client{client: client, languages: languages}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c != nil && c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Languages returns the "+"-separated language set the client recognizes.
func (c *Client) Languages() string {
	return c.languages
}

// RecognizePage performs OCR on a full page image (PNG, TIFF, JPEG, etc.)
// using automatic page segmentation, which handles general layouts.
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizePage(imageData []byte) (string, error) {
	return c.recognize(imageData, gosseract.PSM_AUTO)
}

// RecognizeRegion performs OCR on a cropped region image using the
// single-uniform-block segmentation mode, which is tuned for one coherent
// block of text. Returns the recognized text with leading/trailing
// whitespace trimmed.
func (c *Client) RecognizeRegion(imageData []byte) (string, error) {
	return c.recognize(imageData, gosseract.PSM_SINGLE_BLOCK)
}

func (c *Client) recognize(imageData []byte, mode gosseract.PageSegMode) (string, error) {
	if err := c.client.SetPageSegMode(mode); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}
