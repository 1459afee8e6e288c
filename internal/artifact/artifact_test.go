package artifact_test

import (
	"testing"

	"github.com/studyshare/docview/internal/artifact"
)

func TestResolveName(t *testing.T) {
	tests := []struct {
		name        string
		desiredName string
		locator     string
		want        string
	}{
		{name: "appends missing extension", desiredName: "Notes", locator: "https://host/a/b.pdf", want: "Notes.pdf"},
		{name: "keeps matching extension verbatim", desiredName: "Notes.pdf", locator: "https://host/a/b.pdf", want: "Notes.pdf"},
		{name: "matching extension different case", desiredName: "Notes.PDF", locator: "https://host/a/b.pdf", want: "Notes.PDF"},
		{name: "locator extension uppercase", desiredName: "Notes", locator: "https://host/a/B.PDF", want: "Notes.pdf"},
		{name: "query string ignored", desiredName: "Report", locator: "https://host/r.docx?token=1", want: "Report.docx"},
		{name: "no locator extension passes name through", desiredName: "readme", locator: "https://host/files/readme", want: "readme"},
		{name: "empty name falls back to locator segment", desiredName: "", locator: "https://host/a/Notes.pdf", want: "Notes.pdf"},
		{name: "empty name and bare locator", desiredName: "", locator: "https://host/a/", want: "download"},
		{name: "unrelated extension appended", desiredName: "Notes.txt", locator: "https://host/a/b.pdf", want: "Notes.txt.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := artifact.ResolveName(tt.desiredName, tt.locator)
			if got != tt.want {
				t.Errorf("ResolveName(%q, %q) = %q, want %q", tt.desiredName, tt.locator, got, tt.want)
			}
		})
	}
}

func TestResolveNameIdempotent(t *testing.T) {
	tests := []struct {
		desiredName string
		locator     string
	}{
		{"Notes", "https://host/a/b.pdf"},
		{"Notes.pdf", "https://host/a/b.pdf"},
		{"readme", "https://host/readme"},
		{"", "https://host/a/Report.docx"},
	}

	for _, tt := range tests {
		once := artifact.ResolveName(tt.desiredName, tt.locator)
		twice := artifact.ResolveName(once, tt.locator)

		if once != twice {
			t.Errorf("ResolveName(%q, %q) not idempotent: %q then %q", tt.desiredName, tt.locator, once, twice)
		}
	}
}

func TestContentType(t *testing.T) {
	pdfMagic := []byte("%PDF-1.4\n%...")

	tests := []struct {
		name     string
		declared string
		fileName string
		data     []byte
		want     string
	}{
		{name: "declared type wins", declared: "application/pdf", fileName: "x.bin", want: "application/pdf"},
		{name: "extension table when undeclared", declared: "", fileName: "Notes.pdf", want: "application/pdf"},
		{name: "docx extension", declared: "", fileName: "Report.docx", want: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{name: "txt extension", declared: "", fileName: "readme.txt", want: "text/plain"},
		{name: "sniffed when extension unmapped", declared: "", fileName: "file.bin", data: pdfMagic, want: "application/pdf"},
		{name: "generic declared falls through to table", declared: "application/octet-stream", fileName: "img.png", want: "image/png"},
		{name: "fallback to generic binary", declared: "", fileName: "file.bin", data: nil, want: "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := artifact.ContentType(tt.declared, tt.fileName, tt.data)
			if got != tt.want {
				t.Errorf("ContentType(%q, %q) = %q, want %q", tt.declared, tt.fileName, got, tt.want)
			}
		})
	}
}
