// Package repair recovers structured field mappings from free-form
// language model output. Models asked to return a JSON object routinely
// wrap it in prose or code fences, leave trailing commas, or return an
// error message instead; repair applies an ordered chain of recovery
// heuristics and guarantees a usable result: every requested field is
// present in the output, with a nil value where nothing could be
// recovered. Parse never fails.
package repair

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// FieldSet maps a requested field name to its recovered value: a string,
// a number (float64), or nil when the field could not be recovered.
// Nested structures are flattened to their JSON serialization before
// they reach a FieldSet, so values are always scalar.
type FieldSet map[string]any

// objectPattern finds the first brace-delimited span in free-form text.
// Deliberately permissive and non-greedy: it stops at the first closing
// brace, which is correct for the flat objects the prompts request.
var objectPattern = regexp.MustCompile(`(?s)\{.*?\}`)

// trailingCommaPattern matches a comma immediately preceding a closing
// brace or bracket, the most common syntax error in model-emitted JSON.
var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// Parser recovers field mappings from raw model output.
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a parser with no-op logging.
func NewParser() *Parser {
	return &Parser{logger: zap.NewNop()}
}

// SetLogger sets the logger used to report which recovery step salvaged
// a malformed response.
func (p *Parser) SetLogger(logger *zap.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// Parse extracts the requested fields from raw model output. The
// recovery chain, first success wins:
//
//  1. Find the first {...} span in the text and treat it as the
//     candidate; otherwise strip a ```json code fence and use the
//     trimmed remainder.
//  2. If the candidate does not look like an object, try to read it as
//     an error-shaped object ({"error": ...}); otherwise all fields nil.
//  3. Strict-parse the candidate and project onto fields.
//  4. Strip trailing commas and strict-parse once more.
//  5. Try the error shape against the original raw text.
//  6. All fields nil.
//
// The returned FieldSet always contains every name in fields.
func (p *Parser) Parse(raw string, fields []string) FieldSet {
	candidate, found := ExtractCandidate(raw)
	if !found {
		if errObj, ok := decodeErrorShape(candidate); ok {
			p.logger.Warn("model output was an error object", zap.Any("error", errObj["error"]))
			return projectError(errObj, fields)
		}
		p.logger.Warn("model output does not contain a JSON object",
			zap.String("output", truncate(raw, 200)))
		return nullFields(fields)
	}

	if data, ok := decodeObject(candidate); ok {
		return p.project(data, fields)
	}

	repaired := StripTrailingCommas(candidate)
	if data, ok := decodeObject(repaired); ok {
		p.logger.Debug("parsed model output after trailing-comma repair")
		return p.project(data, fields)
	}

	if errObj, ok := decodeErrorShape(raw); ok {
		p.logger.Warn("model output was an error object", zap.Any("error", errObj["error"]))
		return projectError(errObj, fields)
	}

	p.logger.Warn("model output unparseable after all recovery attempts",
		zap.String("output", truncate(raw, 200)))
	return nullFields(fields)
}

// ExtractCandidate isolates the JSON object candidate from raw model
// output. The second return value reports whether the result looks like
// an object (starts with "{" and ends with "}"); when false the caller
// should fall back to error-shape handling.
func ExtractCandidate(raw string) (string, bool) {
	if match := objectPattern.FindString(raw); match != "" {
		return match, true
	}

	candidate := strings.TrimSpace(StripCodeFence(raw))
	looksLikeObject := strings.HasPrefix(candidate, "{") && strings.HasSuffix(candidate, "}")
	return candidate, looksLikeObject
}

// StripCodeFence removes a leading ```json (or bare ```) marker and a
// trailing ``` marker if present. Content between fences is returned
// trimmed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

// StripTrailingCommas removes commas immediately before closing braces
// and brackets.
func StripTrailingCommas(s string) string {
	return trailingCommaPattern.ReplaceAllString(s, "$1")
}

// decodeObject strict-parses s as a JSON object.
func decodeObject(s string) (map[string]any, bool) {
	var data map[string]any
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		return nil, false
	}
	return data, true
}

// decodeErrorShape parses s as an object carrying an "error" key, the
// shape a failed upstream call reports in place of a real completion.
func decodeErrorShape(s string) (map[string]any, bool) {
	data, ok := decodeObject(s)
	if !ok {
		return nil, false
	}
	if _, hasError := data["error"]; !hasError {
		return nil, false
	}
	return data, true
}

// project builds the result mapping: every requested field present,
// missing keys nil, nested values flattened to their JSON text.
func (p *Parser) project(data map[string]any, fields []string) FieldSet {
	result := make(FieldSet, len(fields))
	for _, field := range fields {
		result[field] = flatten(data[field])
	}
	return result
}

// projectError returns a mapping with all requested fields nil plus the
// error value under the "error" key.
func projectError(errObj map[string]any, fields []string) FieldSet {
	result := nullFields(fields)
	result["error"] = flatten(errObj["error"])
	return result
}

// nullFields returns a mapping with every requested field set to nil.
func nullFields(fields []string) FieldSet {
	result := make(FieldSet, len(fields))
	for _, field := range fields {
		result[field] = nil
	}
	return result
}

// flatten reduces a nested value to a scalar. Models sometimes wrap a
// requested string field in an object or array; downstream consumers
// expect scalar strings, so nested structures are serialized rather than
// dropped.
func flatten(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		serialized, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return string(serialized)
	default:
		return v
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
