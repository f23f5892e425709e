package docformat

import "testing"

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, "PDF"},
		{PNG, "PNG"},
		{JPEG, "JPEG"},
		{BMP, "BMP"},
		{TIFF, "TIFF"},
		{TXT, "TXT"},
		{DOCX, "DOCX"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_IsImage(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{PNG, true},
		{JPEG, true},
		{BMP, true},
		{TIFF, true},
		{PDF, false},
		{TXT, false},
		{DOCX, false},
		{Unknown, false},
	}

	for _, tt := range tests {
		if got := tt.format.IsImage(); got != tt.want {
			t.Errorf("%s.IsImage() = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"scan.pdf", PDF},
		{"scan.PDF", PDF},
		{"photo.png", PNG},
		{"photo.jpg", JPEG},
		{"photo.jpeg", JPEG},
		{"photo.JPEG", JPEG},
		{"scan.bmp", BMP},
		{"scan.tif", TIFF},
		{"scan.tiff", TIFF},
		{"notes.txt", TXT},
		{"cv.docx", DOCX},
		{"/tmp/uploads/passport.pdf", PDF},
		{"archive.zip", Unknown},
		{"noextension", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"pdf", []byte("%PDF-1.7\n"), PDF},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, PNG},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, JPEG},
		{"bmp", []byte("BM\x00\x00"), BMP},
		{"tiff little endian", []byte{0x49, 0x49, 0x2A, 0x00}, TIFF},
		{"tiff big endian", []byte{0x4D, 0x4D, 0x00, 0x2A}, TIFF},
		{"zip is docx", []byte{0x50, 0x4B, 0x03, 0x04}, DOCX},
		{"plain text", []byte("hello world"), Unknown},
		{"too short", []byte{0x50, 0x4B}, Unknown},
		{"empty", nil, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic = %v, want %v", got, tt.want)
			}
		})
	}
}
