package langid

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english prose", "The applicant has a strong background in computer science and robotics.", "eng"},
		{"russian prose", "Заявитель имеет отличные оценки по всем предметам университета.", "rus"},
		{"ukrainian collapses to russian", "Студент навчався в університеті та отримав диплом з відзнакою.", "rus"},
		{"empty", "", Default},
		{"whitespace only", "   \n\t  ", Default},
		{"too short", "abc def", Default},
		{"nine characters", "123456789", Default},
		{"nine cyrillic characters", "Привет ми", Default},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetect_LengthCountsCharacters(t *testing.T) {
	// The length gate counts characters, not bytes: ten Cyrillic
	// characters are enough for detection even though a nine-character
	// string of twice the byte length is not.
	if got := Detect("Привет мир"); got != "rus" {
		t.Errorf("Detect(ten cyrillic characters) = %q, want %q", got, "rus")
	}
	if got := Detect("Привет ми"); got != Default {
		t.Errorf("Detect(nine cyrillic characters) = %q, want %q", got, Default)
	}
}
