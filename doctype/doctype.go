// Package doctype defines the document categories handled by the intake
// pipeline: how category labels map to categories, which categories have
// a structured layout that benefits from region segmentation, and which
// fields the language model is expected to extract for each category.
package doctype

import "strings"

// Category is a document category within a student application.
type Category int

const (
	// Uncategorized indicates a document with no known category label.
	Uncategorized Category = iota
	// Passport is an identity document.
	Passport
	// CV is a curriculum vitae.
	CV
	// Degree is a degree certificate, typically with a grade transcript.
	Degree
	// MotivationLetter is an applicant's motivation letter.
	MotivationLetter
	// RecommendationLetter is a letter of recommendation.
	RecommendationLetter
	// LanguageCertificate is a language proficiency certificate.
	LanguageCertificate
	// Achievements is a document listing awards and achievements.
	Achievements
	// AdditionalDocuments is a bundle of supplementary certificates.
	AdditionalDocuments
	// Evaluation is the synthetic category for the overall applicant
	// evaluation; it has no uploaded document of its own.
	Evaluation
)

// String returns the canonical category label.
func (c Category) String() string {
	switch c {
	case Passport:
		return "passport"
	case CV:
		return "cv"
	case Degree:
		return "degree"
	case MotivationLetter:
		return "motivation_letter"
	case RecommendationLetter:
		return "recommendation_letter"
	case LanguageCertificate:
		return "language_certificate"
	case Achievements:
		return "achievements"
	case AdditionalDocuments:
		return "additional_documents"
	case Evaluation:
		return "evaluation"
	default:
		return "uncategorized"
	}
}

// Parse maps a free-text category label to a Category. Matching is
// case-insensitive and ignores surrounding whitespace. The second return
// value is false when the label is not a known category.
func Parse(label string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "passport":
		return Passport, true
	case "cv":
		return CV, true
	case "degree":
		return Degree, true
	case "motivation_letter":
		return MotivationLetter, true
	case "recommendation_letter":
		return RecommendationLetter, true
	case "language_certificate":
		return LanguageCertificate, true
	case "achievements":
		return Achievements, true
	case "additional_documents":
		return AdditionalDocuments, true
	case "evaluation":
		return Evaluation, true
	default:
		return Uncategorized, false
	}
}

// Categories returns all document categories that carry an uploaded
// document, in the order the pipeline processes them. Evaluation is
// excluded: it is derived from the others.
func Categories() []Category {
	return []Category{
		Passport,
		CV,
		Degree,
		MotivationLetter,
		RecommendationLetter,
		LanguageCertificate,
		Achievements,
		AdditionalDocuments,
	}
}

// Layout classifies how a category's documents should be recognized.
type Layout int

const (
	// Unstructured documents (letters, CVs) are recognized whole-page.
	// Region segmentation on prose hurts accuracy more than it helps.
	Unstructured Layout = iota
	// Structured documents (certificates, document bundles) benefit from
	// region-based recognition of their tabular or blocked layout.
	Structured
)

// String returns a string representation of the layout.
func (l Layout) String() string {
	if l == Structured {
		return "structured"
	}
	return "unstructured"
}

// Classify returns the layout classification for the category.
func (c Category) Classify() Layout {
	switch c {
	case Degree, LanguageCertificate, AdditionalDocuments:
		return Structured
	default:
		return Unstructured
	}
}

// Fields returns the field names the language model is expected to
// extract for the category. The repairer guarantees every one of these
// keys is present in its output, with null values where extraction
// failed. Categories with no extraction task return nil.
func (c Category) Fields() []string {
	switch c {
	case Passport:
		return []string{"name", "gender", "date_of_birth", "nationality"}
	case CV:
		return []string{"cv_summary"}
	case Degree:
		return []string{"university_name", "gpa"}
	case MotivationLetter:
		return []string{"motivation_letter_summary"}
	case RecommendationLetter:
		return []string{"recommendation_letter_summary", "recommendation_author"}
	case LanguageCertificate:
		return []string{"russian_language_level"}
	case Achievements:
		return []string{"achievements_summary"}
	case AdditionalDocuments:
		return []string{"additional_documents_summary"}
	case Evaluation:
		return []string{"evaluation_score", "evaluation_comments"}
	default:
		return nil
	}
}
