package filekind_test

import (
	"testing"

	"github.com/studyshare/docview/internal/filekind"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		locator string
		want    filekind.Kind
	}{
		{name: "pdf", locator: "https://host/a/b/Notes.pdf", want: filekind.PDF},
		{name: "pdf uppercase extension", locator: "https://host/NOTES.PDF", want: filekind.PDF},
		{name: "pdf with query string", locator: "https://host/file.pdf?x=1&y=2", want: filekind.PDF},
		{name: "pdf with fragment", locator: "https://host/file.pdf#page=2", want: filekind.PDF},
		{name: "doc", locator: "https://host/old.doc", want: filekind.Word},
		{name: "docx", locator: "https://host/Report.docx", want: filekind.Word},
		{name: "xls", locator: "/files/grades.xls", want: filekind.Excel},
		{name: "xlsx", locator: "grades.xlsx", want: filekind.Excel},
		{name: "ppt", locator: "https://host/slides.ppt", want: filekind.PowerPoint},
		{name: "pptx", locator: "https://host/slides.pptx?token=abc", want: filekind.PowerPoint},
		{name: "unrecognized extension", locator: "https://host/archive.tar.gz", want: filekind.Unknown},
		{name: "no extension", locator: "https://host/files/readme", want: filekind.Unknown},
		{name: "trailing dot", locator: "https://host/file.", want: filekind.Unknown},
		{name: "dot only in path", locator: "https://host/v1.2/file", want: filekind.Unknown},
		{name: "empty locator", locator: "", want: filekind.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filekind.Classify(tt.locator)
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.locator, got, tt.want)
			}

			// classification must be stable under repeated calls
			if again := filekind.Classify(tt.locator); again != got {
				t.Errorf("Classify(%q) not stable: first %v, second %v", tt.locator, got, again)
			}
		})
	}
}

func TestClassifyStableUnderQueryString(t *testing.T) {
	base := "https://host/a/b/Notes.pdf"
	if filekind.Classify(base) != filekind.Classify(base+"?x=1") {
		t.Errorf("classification diverged under appended query string")
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		locator string
		want    string
	}{
		{"https://host/Notes.pdf", "pdf"},
		{"https://host/Notes.PDF?x=1", "pdf"},
		{"https://host/a.b/file", ""},
		{"plain", ""},
		{"dir/trailing.", ""},
		{"name.tar.gz", "gz"},
	}

	for _, tt := range tests {
		if got := filekind.Extension(tt.locator); got != tt.want {
			t.Errorf("Extension(%q) = %q, want %q", tt.locator, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind filekind.Kind
		want string
	}{
		{filekind.PDF, "PDF"},
		{filekind.Word, "Word"},
		{filekind.Excel, "Excel"},
		{filekind.PowerPoint, "PowerPoint"},
		{filekind.Unknown, "Unknown"},
		{filekind.Kind(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestMIMEByExtension(t *testing.T) {
	tests := []struct {
		ext    string
		want   string
		mapped bool
	}{
		{"pdf", "application/pdf", true},
		{"doc", "application/msword", true},
		{"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"xls", "application/vnd.ms-excel", true},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true},
		{"ppt", "application/vnd.ms-powerpoint", true},
		{"pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation", true},
		{"txt", "text/plain", true},
		{"jpg", "image/jpeg", true},
		{"jpeg", "image/jpeg", true},
		{"png", "image/png", true},
		{"gif", "image/gif", true},
		{"webp", "image/webp", true},
		{"zip", "application/zip", true},
		{"rar", "application/x-rar-compressed", true},
		{"exe", "application/octet-stream", false},
		{"", "application/octet-stream", false},
	}

	for _, tt := range tests {
		got, mapped := filekind.MIMEByExtension(tt.ext)
		if got != tt.want || mapped != tt.mapped {
			t.Errorf("MIMEByExtension(%q) = (%q, %v), want (%q, %v)", tt.ext, got, mapped, tt.want, tt.mapped)
		}
	}
}
