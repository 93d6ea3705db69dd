package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"cv.pdf", ContentTypePDF},
		{"CV.PDF", ContentTypePDF},
		{"resume.docx", ContentTypeDocx},
		{"notes.md", ContentTypeText},
		{"profile.txt", ContentTypeText},
		{"legacy.doc", ""},
		{"image.png", ""},
		{"noext", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := ContentTypeFor(tt.filename); got != tt.want {
				t.Errorf("ContentTypeFor(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.txt")
	if err := os.WriteFile(path, []byte("0123456789"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := ValidateInputFile(path, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateInputFile(path, 100); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateInputFile(path, 5); err == nil {
		t.Error("expected size limit error")
	}
	if err := ValidateInputFile(dir, 0); err == nil {
		t.Error("expected directory error")
	}
	if err := ValidateInputFile(filepath.Join(dir, "missing.txt"), 0); err == nil {
		t.Error("expected missing file error")
	}
	if err := ValidateInputFile("", 0); err == nil {
		t.Error("expected empty name error")
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{10 * 1024 * 1024, "10.0 MB"},
	}

	for _, tt := range tests {
		if got := FormatFileSize(tt.size); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
