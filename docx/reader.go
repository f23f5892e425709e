// Package docx provides paragraph text extraction from DOCX (Office Open
// XML) documents. Only the main document part is read; styles, numbering
// and embedded objects are ignored, since the intake pipeline needs the
// raw paragraph text and nothing else.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Reader provides access to DOCX document content.
type Reader struct {
	zipReader  *zip.ReadCloser
	paragraphs []string
}

// Open opens a DOCX file and parses its main document part.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{zipReader: zr}

	if err := r.validate(); err != nil {
		zr.Close()
		return nil, err
	}

	if err := r.parseDocument(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// Paragraphs returns the document's paragraph texts in document order.
// Empty paragraphs are included, preserving vertical structure.
func (r *Reader) Paragraphs() []string {
	return r.paragraphs
}

// Text returns the full document text with paragraphs joined by newlines.
func (r *Reader) Text() string {
	return strings.Join(r.paragraphs, "\n")
}

// validate checks that required DOCX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"word/document.xml",
	}

	fileMap := make(map[string]bool)
	for _, f := range r.zipReader.File {
		fileMap[f.Name] = true
	}

	for _, name := range required {
		if !fileMap[name] {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	return nil
}

// documentXML mirrors the parts of word/document.xml we care about.
// encoding/xml matches on local names, so namespace prefixes are ignored.
type documentXML struct {
	Body bodyXML `xml:"body"`
}

type bodyXML struct {
	Paragraphs []paragraphXML `xml:"p"`
}

type paragraphXML struct {
	Runs []runXML `xml:"r"`
}

type runXML struct {
	Texts []string `xml:"t"`
}

// parseDocument reads word/document.xml and extracts paragraph text.
func (r *Reader) parseDocument() error {
	data, err := r.getFileContent("word/document.xml")
	if err != nil {
		return err
	}

	var doc documentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshaling document.xml: %w", err)
	}

	r.paragraphs = make([]string, 0, len(doc.Body.Paragraphs))
	for _, p := range doc.Body.Paragraphs {
		var sb strings.Builder
		for _, run := range p.Runs {
			for _, t := range run.Texts {
				sb.WriteString(t)
			}
		}
		r.paragraphs = append(r.paragraphs, sb.String())
	}

	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	for _, f := range r.zipReader.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}
