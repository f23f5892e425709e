package pipeline

import (
	"fmt"
	"strings"

	"github.com/tsawler/intake/aggregate"
	"github.com/tsawler/intake/doctype"
)

// jsonInstruction is appended to every extraction prompt to steer the
// model toward machine-readable output. The repair package handles the
// cases where the model ignores it anyway.
const jsonInstruction = "Format your response STRICTLY as a JSON object. " +
	"Ensure all string values are properly escaped for JSON (e.g., use \\\" for quotes, \\n for newlines). " +
	"Return ONLY the JSON object without any text before or after it."

// flatStringInstruction asks for scalar string values. Some models wrap
// string fields in nested objects; repair flattens those, but asking
// first is cheaper.
const flatStringInstruction = "The value for this field MUST be a single flat string, " +
	"not a nested JSON object or dictionary."

// buildPrompt returns the extraction prompt for a document category and
// its extracted text. Categories without an extraction task return "".
func buildPrompt(category doctype.Category, content string) string {
	switch category {
	case doctype.Passport:
		return fmt.Sprintf(`Extract information from the passport. %s
Fields: "name" (string), "gender" (string), "date_of_birth" (string, YYYY-MM-DD), "nationality" (string).
If content is empty or data not found, use appropriate null/empty string values within the JSON.
Example: {"name": "John Doe", "gender": "Male", "date_of_birth": "1990-01-01", "nationality": "USA"}
Passport content: %s
Return only the JSON object without any additional text or explanations.
If any field is missing, still include it as null.`, jsonInstruction, content)

	case doctype.CV:
		return fmt.Sprintf(`Summarize the CV, focusing on software skills, programming languages, and projects. %s
Field: "cv_summary" (string, max 200 words). %s If content empty, return {"cv_summary": "No CV data provided"}.
Example: {"cv_summary": "Proficient in Python and ROS. Developed a robotic arm controlled by a web application. Specializes in robotics and AI."}
CV content: %s`, jsonInstruction, flatStringInstruction, content)

	case doctype.Degree:
		return fmt.Sprintf(`Extract university name and calculate GPA from the degree certificate. %s
To calculate GPA: Count "Отлично" (5), "Хорошо" (4), "Удовлетворительно" (3). Ignore "зачтено".
Formula: GPA = (3 * number of "Удовлетворительно" + 4 * number of "Хорошо" + 5 * number of "Отлично") / (number of "Удовлетворительно" + number of "Хорошо" + number of "Отлично").
If no such grades, GPA is 0.0. Round GPA to 2 decimal places.
Fields: "university_name" (string, or "Unknown"), "gpa" (float).
Example: {"university_name": "Moscow State University", "gpa": 4.53}
Degree content: %s
Return only the JSON object without any additional text or explanations.
If any field is missing, still include it as null.`, jsonInstruction, content)

	case doctype.MotivationLetter:
		return fmt.Sprintf(`Summarize the motivation letter: purpose for master's study, future plans. %s
Field: "motivation_letter_summary" (string, max 200 words). %s If empty, return {"motivation_letter_summary": "No motivation letter data provided"}.
Example: {"motivation_letter_summary": "Aims to specialize in AI and contribute to research in machine learning."}
Motivation letter content: %s`, jsonInstruction, flatStringInstruction, content)

	case doctype.RecommendationLetter:
		return fmt.Sprintf(`Summarize recommendation letter and identify author. %s
Fields: "recommendation_letter_summary" (string, max 200 words), "recommendation_author" (string).
%s for recommendation_letter_summary. If empty, return {"recommendation_letter_summary": "No recommendation letter data provided", "recommendation_author": ""}.
Example: {"recommendation_letter_summary": "Highly recommended for graduate study.", "recommendation_author": "Prof. Smith"}
Recommendation letter content: %s`, jsonInstruction, flatStringInstruction, content)

	case doctype.LanguageCertificate:
		return fmt.Sprintf(`Extract Russian language proficiency level (e.g., A1-C2). %s
Field: "russian_language_level" (string). %s If empty, return {"russian_language_level": "No language certificate data provided"}.
Example: {"russian_language_level": "B2"}
Certificate content: %s`, jsonInstruction, flatStringInstruction, content)

	case doctype.Achievements:
		return fmt.Sprintf(`List and summarize personal achievements and awards. %s
Field: "achievements_summary" (string). %s If empty, return {"achievements_summary": "No achievements data provided"}.
Example: {"achievements_summary": "Won hackathon. Published paper."}
Achievements document content: %s`, jsonInstruction, flatStringInstruction, content)

	case doctype.AdditionalDocuments:
		return fmt.Sprintf(`Briefly summarize additional documents/certificates. %s
Field: "additional_documents_summary" (string). %s If empty, return {"additional_documents_summary": "No additional documents data provided"}.
Example: {"additional_documents_summary": "IELTS score 7.0. Coursera certificate in ML."}
Additional documents content: %s`, jsonInstruction, flatStringInstruction, content)

	default:
		return ""
	}
}

// emptyContentDefault is the summary recorded when a category's document
// is present but contains no extractable text.
func emptyContentDefault(category doctype.Category) string {
	switch category {
	case doctype.CV:
		return "No CV data provided"
	case doctype.MotivationLetter:
		return "No motivation letter data provided"
	case doctype.RecommendationLetter:
		return "No recommendation letter data provided"
	case doctype.LanguageCertificate:
		return "No language certificate data provided"
	case doctype.Achievements:
		return "No achievements data provided"
	case doctype.AdditionalDocuments:
		return "No additional documents data provided"
	default:
		return ""
	}
}

// buildEvaluationPrompt constructs the overall evaluation prompt from
// the applicant profile merged so far.
func buildEvaluationPrompt(rec *aggregate.Record) string {
	var profile strings.Builder
	profile.WriteString("Applicant Profile:\n")

	writeField := func(label, value string) {
		if value == "" {
			value = "N/A"
		}
		fmt.Fprintf(&profile, "- %s: %s\n", label, value)
	}

	info := rec.StudentInfo
	writeField("Name", info.Name)
	writeField("Gender", info.Gender)
	writeField("Date Of Birth", info.DateOfBirth)
	writeField("Age", nonZero(info.Age))
	writeField("Nationality", info.Nationality)
	writeField("Previous University", info.PreviousUniversity)
	writeField("Gpa", nonZeroFloat(info.GPA))
	writeField("Russian Language Level", info.RussianLanguageLevel)

	sums := rec.Summaries
	writeField("Cv Summary", sums.CVSummary)
	writeField("Motivation Letter Summary", sums.MotivationLetterSummary)
	writeField("Recommendation Letter Summary", sums.RecommendationLetterSummary)
	writeField("Recommendation Author", sums.RecommendationAuthor)
	writeField("Achievements Summary", sums.AchievementsSummary)
	writeField("Additional Documents Summary", sums.AdditionalDocumentsSummary)

	return fmt.Sprintf(`Based on the applicant profile, provide an overall evaluation score (0-100) and brief comments in English.
Consider all aspects: academics, skills, motivation, recommendations, language.
%s
Fields: "evaluation_score" (integer, 0-100), "evaluation_comments" (string, English).
Example: {"evaluation_score": 85, "evaluation_comments": "Strong candidate with good GPA and relevant skills."}
Profile:
%s`, jsonInstruction, profile.String())
}

func nonZero(v int) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%d", v)
}

func nonZeroFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}
