package extract

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/intake/docx"
)

// legacyEncodings is the ordered fallback list for text files that are
// not valid UTF-8. Windows-1251 and ISO 8859-5 cover the Cyrillic
// documents this pipeline sees; ISO 8859-1 is tried first to match the
// behavior applicants' legacy exports expect.
var legacyEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"ISO 8859-1", charmap.ISO8859_1},
	{"Windows-1251", charmap.Windows1251},
	{"ISO 8859-5", charmap.ISO8859_5},
}

// readTextFile reads a plain-text file, attempting UTF-8 first and then
// the fixed list of legacy encodings until one decodes without error.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, candidate := range legacyEncodings {
		decoded, err := candidate.enc.NewDecoder().Bytes(data)
		if err == nil {
			return string(decoded), nil
		}
	}

	return "", fmt.Errorf("could not decode text file %s with any supported encoding", path)
}

// readDocxFile extracts the paragraph text of a DOCX document, joined
// with newline separators.
func readDocxFile(path string) (string, error) {
	r, err := docx.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX file: %w", err)
	}
	defer r.Close()

	return r.Text(), nil
}
