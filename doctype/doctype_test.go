package doctype

import "testing"

func TestCategory_String(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{Passport, "passport"},
		{CV, "cv"},
		{Degree, "degree"},
		{MotivationLetter, "motivation_letter"},
		{RecommendationLetter, "recommendation_letter"},
		{LanguageCertificate, "language_certificate"},
		{Achievements, "achievements"},
		{AdditionalDocuments, "additional_documents"},
		{Evaluation, "evaluation"},
		{Uncategorized, "uncategorized"},
		{Category(99), "uncategorized"},
	}

	for _, tt := range tests {
		if got := tt.category.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		label  string
		want   Category
		wantOK bool
	}{
		{"passport", Passport, true},
		{"Passport", Passport, true},
		{"  degree  ", Degree, true},
		{"CV", CV, true},
		{"motivation_letter", MotivationLetter, true},
		{"evaluation", Evaluation, true},
		{"transcript", Uncategorized, false},
		{"", Uncategorized, false},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.label)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Parse(%q) = (%v, %v), want (%v, %v)", tt.label, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for _, c := range Categories() {
		got, ok := Parse(c.String())
		if !ok || got != c {
			t.Errorf("Parse(%q) = (%v, %v), want (%v, true)", c.String(), got, ok, c)
		}
	}
}

func TestCategory_Classify(t *testing.T) {
	structured := map[Category]bool{
		Degree:              true,
		LanguageCertificate: true,
		AdditionalDocuments: true,
	}

	for _, c := range Categories() {
		want := Unstructured
		if structured[c] {
			want = Structured
		}
		if got := c.Classify(); got != want {
			t.Errorf("%s.Classify() = %v, want %v", c, got, want)
		}
	}
}

func TestCategory_Fields(t *testing.T) {
	tests := []struct {
		category Category
		want     []string
	}{
		{Passport, []string{"name", "gender", "date_of_birth", "nationality"}},
		{CV, []string{"cv_summary"}},
		{Degree, []string{"university_name", "gpa"}},
		{RecommendationLetter, []string{"recommendation_letter_summary", "recommendation_author"}},
		{Evaluation, []string{"evaluation_score", "evaluation_comments"}},
		{Uncategorized, nil},
	}

	for _, tt := range tests {
		got := tt.category.Fields()
		if len(got) != len(tt.want) {
			t.Errorf("%s.Fields() = %v, want %v", tt.category, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s.Fields()[%d] = %q, want %q", tt.category, i, got[i], tt.want[i])
			}
		}
	}
}

func TestCategories_ExcludesEvaluation(t *testing.T) {
	for _, c := range Categories() {
		if c == Evaluation {
			t.Error("Categories() must not include Evaluation")
		}
		if c == Uncategorized {
			t.Error("Categories() must not include Uncategorized")
		}
	}
	if len(Categories()) != 8 {
		t.Errorf("got %d categories, want 8", len(Categories()))
	}
}
