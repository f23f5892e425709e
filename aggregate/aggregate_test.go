package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tsawler/intake/doctype"
	"github.com/tsawler/intake/repair"
)

// newTestAggregator returns an aggregator with a fixed clock so age
// derivation is deterministic.
func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	a := NewAggregator()
	a.now = func() time.Time {
		return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	}
	return a
}

func TestApply_Passport(t *testing.T) {
	a := newTestAggregator(t)
	rec := NewRecord()

	a.Apply(rec, doctype.Passport, repair.FieldSet{
		"name":          "John Doe",
		"gender":        "Male",
		"date_of_birth": "1990-01-01",
		"nationality":   "USA",
	})

	assert.Equal(t, "John Doe", rec.StudentInfo.Name)
	assert.Equal(t, "Male", rec.StudentInfo.Gender)
	assert.Equal(t, "1990-01-01", rec.StudentInfo.DateOfBirth)
	assert.Equal(t, 35, rec.StudentInfo.Age)
	assert.Equal(t, "USA", rec.StudentInfo.Nationality)
}

func TestApply_PassportBadBirthDate(t *testing.T) {
	a := newTestAggregator(t)
	rec := NewRecord()

	a.Apply(rec, doctype.Passport, repair.FieldSet{
		"date_of_birth": "January 1st, 1990",
	})

	// The raw value is kept but no age can be derived from it.
	assert.Equal(t, "January 1st, 1990", rec.StudentInfo.DateOfBirth)
	assert.Equal(t, 0, rec.StudentInfo.Age)
}

func TestApply_EmptyNeverOverwrites(t *testing.T) {
	a := newTestAggregator(t)
	rec := NewRecord()
	rec.StudentInfo.Name = "Old Name"
	rec.Summaries.CVSummary = "Old Summary"

	a.Apply(rec, doctype.Passport, repair.FieldSet{"name": nil})
	a.Apply(rec, doctype.Passport, repair.FieldSet{"name": ""})
	a.Apply(rec, doctype.CV, repair.FieldSet{"cv_summary": nil})

	assert.Equal(t, "Old Name", rec.StudentInfo.Name)
	assert.Equal(t, "Old Summary", rec.Summaries.CVSummary)
}

func TestApply_Degree(t *testing.T) {
	a := newTestAggregator(t)
	rec := NewRecord()

	a.Apply(rec, doctype.Degree, repair.FieldSet{
		"university_name": "Moscow State University",
		"gpa":             4.53,
	})

	assert.Equal(t, "Moscow State University", rec.StudentInfo.PreviousUniversity)
	assert.Equal(t, 4.53, rec.StudentInfo.GPA)
}

func TestApply_DegreeDefaults(t *testing.T) {
	a := newTestAggregator(t)
	rec := NewRecord()

	a.Apply(rec, doctype.Degree, repair.FieldSet{
		"university_name": nil,
		"gpa":             nil,
	})

	assert.Equal(t, "Unknown", rec.StudentInfo.PreviousUniversity)
	assert.Equal(t, 0.0, rec.StudentInfo.GPA)
}

func TestApply_DegreeUnknownDoesNotOverwrite(t *testing.T) {
	a := newTestAggregator(t)
	rec := NewRecord()
	rec.StudentInfo.PreviousUniversity = "Known University"

	a.Apply(rec, doctype.Degree, repair.FieldSet{"university_name": nil})

	assert.Equal(t, "Known University", rec.StudentInfo.PreviousUniversity)
}

func TestApply_GPACoercion(t *testing.T) {
	tests := []struct {
		name string
		gpa  any
		want float64
	}{
		{"float", 4.2, 4.2},
		{"numeric string", "4.75", 4.75},
		{"garbage string", "excellent", 0.0},
		{"bool", true, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAggregator(t)
			rec := NewRecord()

			a.Apply(rec, doctype.Degree, repair.FieldSet{"gpa": tt.gpa})

			assert.Equal(t, tt.want, rec.StudentInfo.GPA)
		})
	}
}

func TestApply_Summaries(t *testing.T) {
	a := newTestAggregator(t)
	rec := NewRecord()

	a.Apply(rec, doctype.CV, repair.FieldSet{"cv_summary": "Python and ROS."})
	a.Apply(rec, doctype.MotivationLetter, repair.FieldSet{"motivation_letter_summary": "Wants to study AI."})
	a.Apply(rec, doctype.RecommendationLetter, repair.FieldSet{
		"recommendation_letter_summary": "Strongly recommended.",
		"recommendation_author":         "Prof. Smith",
	})
	a.Apply(rec, doctype.LanguageCertificate, repair.FieldSet{"russian_language_level": "B2"})
	a.Apply(rec, doctype.Achievements, repair.FieldSet{"achievements_summary": "Hackathon winner."})
	a.Apply(rec, doctype.AdditionalDocuments, repair.FieldSet{"additional_documents_summary": "IELTS 7.0."})

	assert.Equal(t, "Python and ROS.", rec.Summaries.CVSummary)
	assert.Equal(t, "Wants to study AI.", rec.Summaries.MotivationLetterSummary)
	assert.Equal(t, "Strongly recommended.", rec.Summaries.RecommendationLetterSummary)
	assert.Equal(t, "Prof. Smith", rec.Summaries.RecommendationAuthor)
	assert.Equal(t, "B2", rec.StudentInfo.RussianLanguageLevel)
	assert.Equal(t, "Hackathon winner.", rec.Summaries.AchievementsSummary)
	assert.Equal(t, "IELTS 7.0.", rec.Summaries.AdditionalDocumentsSummary)
}

func TestApply_Evaluation(t *testing.T) {
	a := newTestAggregator(t)
	rec := NewRecord()

	a.Apply(rec, doctype.Evaluation, repair.FieldSet{
		"evaluation_score":    float64(85),
		"evaluation_comments": "Strong candidate.",
	})

	assert.Equal(t, 85, rec.Evaluation.Score)
	assert.Equal(t, "Strong candidate.", rec.Evaluation.Comments)
}

func TestApply_EvaluationScoreCoercion(t *testing.T) {
	tests := []struct {
		name  string
		score any
		want  int
	}{
		{"json number", float64(72), 72},
		{"numeric string", "90", 90},
		{"garbage", "high", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAggregator(t)
			rec := NewRecord()

			a.Apply(rec, doctype.Evaluation, repair.FieldSet{"evaluation_score": tt.score})

			assert.Equal(t, tt.want, rec.Evaluation.Score)
		})
	}
}

func TestApply_NumberCoercedToString(t *testing.T) {
	a := newTestAggregator(t)
	rec := NewRecord()

	// A model returning a numeric value for a string field still lands.
	a.Apply(rec, doctype.LanguageCertificate, repair.FieldSet{"russian_language_level": float64(2)})

	assert.Equal(t, "2", rec.StudentInfo.RussianLanguageLevel)
}
