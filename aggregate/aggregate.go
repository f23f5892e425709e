// Package aggregate merges per-category field extractions into a single
// application record. The merge policy is conservative: a field is only
// overwritten when the incoming value is present and non-empty, so a
// failed extraction for one document never erases data recovered from
// another.
package aggregate

import (
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tsawler/intake/doctype"
	"github.com/tsawler/intake/repair"
)

// StudentInfo holds the applicant identity and academic fields.
type StudentInfo struct {
	Name                 string  `json:"name"`
	Gender               string  `json:"gender"`
	DateOfBirth          string  `json:"date_of_birth"`
	Age                  int     `json:"age"`
	Nationality          string  `json:"nationality"`
	PreviousUniversity   string  `json:"previous_university"`
	GPA                  float64 `json:"gpa"`
	RussianLanguageLevel string  `json:"russian_language_level"`
}

// Summaries holds the per-document-type textual summaries.
type Summaries struct {
	CVSummary                   string `json:"cv_summary"`
	MotivationLetterSummary     string `json:"motivation_letter_summary"`
	RecommendationLetterSummary string `json:"recommendation_letter_summary"`
	RecommendationAuthor        string `json:"recommendation_author"`
	AchievementsSummary         string `json:"achievements_summary"`
	AdditionalDocumentsSummary  string `json:"additional_documents_summary"`
}

// Evaluation holds the overall applicant evaluation.
type Evaluation struct {
	Score    int    `json:"score"`
	Comments string `json:"comments"`
}

// Record is the merged application record, built up incrementally as
// each document category's extraction arrives.
type Record struct {
	StudentInfo StudentInfo `json:"student_info"`
	Summaries   Summaries   `json:"summaries"`
	Evaluation  Evaluation  `json:"evaluation"`
}

// NewRecord returns an empty record with zero-value fields.
func NewRecord() *Record {
	return &Record{}
}

// Aggregator applies extracted field sets to a record.
type Aggregator struct {
	logger *zap.Logger

	// now is the clock used for age derivation; overridable in tests.
	now func() time.Time
}

// NewAggregator creates an aggregator with no-op logging.
func NewAggregator() *Aggregator {
	return &Aggregator{
		logger: zap.NewNop(),
		now:    time.Now,
	}
}

// SetLogger sets the logger used to report coercion failures.
func (a *Aggregator) SetLogger(logger *zap.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// Apply merges a category's extracted fields into the record. Only
// non-empty incoming values overwrite; aggregation never fails, a field
// that cannot be coerced is left at its current value (or a logged
// default) instead.
func (a *Aggregator) Apply(rec *Record, category doctype.Category, fields repair.FieldSet) {
	switch category {
	case doctype.Passport:
		a.applyPassport(rec, fields)
	case doctype.CV:
		setString(&rec.Summaries.CVSummary, fields["cv_summary"])
	case doctype.Degree:
		a.applyDegree(rec, fields)
	case doctype.MotivationLetter:
		setString(&rec.Summaries.MotivationLetterSummary, fields["motivation_letter_summary"])
	case doctype.RecommendationLetter:
		setString(&rec.Summaries.RecommendationLetterSummary, fields["recommendation_letter_summary"])
		setString(&rec.Summaries.RecommendationAuthor, fields["recommendation_author"])
	case doctype.LanguageCertificate:
		setString(&rec.StudentInfo.RussianLanguageLevel, fields["russian_language_level"])
	case doctype.Achievements:
		setString(&rec.Summaries.AchievementsSummary, fields["achievements_summary"])
	case doctype.AdditionalDocuments:
		setString(&rec.Summaries.AdditionalDocumentsSummary, fields["additional_documents_summary"])
	case doctype.Evaluation:
		a.applyEvaluation(rec, fields)
	}
}

func (a *Aggregator) applyPassport(rec *Record, fields repair.FieldSet) {
	setString(&rec.StudentInfo.Name, fields["name"])
	setString(&rec.StudentInfo.Gender, fields["gender"])
	setString(&rec.StudentInfo.Nationality, fields["nationality"])

	if dob := asString(fields["date_of_birth"]); dob != "" {
		rec.StudentInfo.DateOfBirth = dob
		if birth, err := time.Parse("2006-01-02", dob); err == nil {
			rec.StudentInfo.Age = a.now().Year() - birth.Year()
		} else {
			a.logger.Warn("could not parse date of birth", zap.String("date_of_birth", dob))
		}
	}
}

func (a *Aggregator) applyDegree(rec *Record, fields repair.FieldSet) {
	if university := asString(fields["university_name"]); university != "" {
		rec.StudentInfo.PreviousUniversity = university
	} else if rec.StudentInfo.PreviousUniversity == "" {
		rec.StudentInfo.PreviousUniversity = "Unknown"
	}

	if fields["gpa"] != nil {
		gpa, ok := asFloat(fields["gpa"])
		if !ok {
			a.logger.Warn("could not parse GPA, defaulting to 0.0", zap.Any("gpa", fields["gpa"]))
			gpa = 0.0
		}
		rec.StudentInfo.GPA = gpa
	}
}

func (a *Aggregator) applyEvaluation(rec *Record, fields repair.FieldSet) {
	if fields["evaluation_score"] != nil {
		score, ok := asInt(fields["evaluation_score"])
		if !ok {
			a.logger.Warn("could not parse evaluation score", zap.Any("score", fields["evaluation_score"]))
			score = 0
		}
		rec.Evaluation.Score = score
	}
	setString(&rec.Evaluation.Comments, fields["evaluation_comments"])
}

// setString overwrites dst only when the incoming value is non-empty.
func setString(dst *string, v any) {
	if s := asString(v); s != "" {
		*dst = s
	}
}

// asString coerces a field value to a string: strings pass through,
// numbers are formatted, structures are serialized, nil is empty.
func asString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		serialized, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(serialized)
	}
}

// asFloat coerces a field value to a float64, accepting numbers and
// numeric strings.
func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// asInt coerces a field value to an int, truncating fractional numbers
// the way a lenient reader would.
func asInt(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		return int(val), true
	case string:
		i, err := strconv.Atoi(val)
		return i, err == nil
	default:
		return 0, false
	}
}
