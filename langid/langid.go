// Package langid provides statistical language identification for
// extracted document text. Applicant documents arrive in either English
// or Russian, so the detector collapses the Slavic language family to a
// single Russian code; recognition of Cyrillic text trained on Russian
// handles the occasional Ukrainian or Bulgarian document acceptably.
package langid

import (
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
)

// Default is the language code returned when detection is not possible:
// input too short, empty, or the detector fails.
const Default = "eng"

// minLength is the minimum trimmed input length for detection, in
// characters. Trigram statistics on fewer characters are meaningless.
const minLength = 10

// slavic is the set of detected languages collapsed to the Russian code.
var slavic = map[whatlanggo.Lang]bool{
	whatlanggo.Rus: true,
	whatlanggo.Ukr: true,
	whatlanggo.Bul: true,
	whatlanggo.Srp: true,
	whatlanggo.Mkd: true,
}

// Detect identifies the language of the text and returns a language code:
// "rus" for the Slavic family, "eng" for English, or the detected ISO
// 639-3 code otherwise. Degenerate input yields Default. Detect never
// fails.
func Detect(text string) string {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minLength {
		return Default
	}

	info := whatlanggo.Detect(text)

	switch {
	case slavic[info.Lang]:
		return "rus"
	case info.Lang == whatlanggo.Eng:
		return "eng"
	}

	if code := info.Lang.Iso6393(); code != "" {
		return code
	}
	return Default
}
