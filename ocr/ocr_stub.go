//go:build !ocr

// Package ocr provides OCR (Optical Character Recognition) capabilities
// for extracting text from scanned application documents.
//
// This is the stub implementation used when the "ocr" build tag is not
// set. All functions return ErrOCRNotEnabled.
//
// To enable OCR, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract and the English and Russian language packs to
// be installed. On macOS:
//
//	brew install tesseract tesseract-lang
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-rus
package ocr

import "errors"

// ErrOCRNotEnabled is returned when OCR functions are called but OCR
// support was not compiled in. Rebuild with -tags ocr to enable OCR.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// DefaultLanguages is the default recognition language set.
const DefaultLanguages = "eng+rus"

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
// To enable OCR, rebuild with: go build -tags ocr
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// NewWithLanguages returns an error indicating OCR support is not enabled.
func NewWithLanguages(languages string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client.
// It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// Languages returns the empty string for the stub client.
func (c *Client) Languages() string {
	return ""
}

// RecognizePage returns an error indicating OCR support is not enabled.
func (c *Client) RecognizePage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// RecognizeRegion returns an error indicating OCR support is not enabled.
func (c *Client) RecognizeRegion(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}
