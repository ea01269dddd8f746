// File path: internal/document/extract_test.go
package document

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		mime string
		want Kind
	}{
		{"notes.txt", "text/plain", KindText},
		{"notes.txt", "", KindText},
		{"readme.md", "text/markdown", KindMarkdown},
		{"readme.markdown", "", KindMarkdown},
		{"paper.pdf", "application/pdf", KindPDF},
		{"paper.pdf", "", KindPDF},
		{"report.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", KindWord},
		{"report.docx", "", KindWord},
		{"noext", "text/plain; charset=utf-8", KindText},
		{"image.png", "image/png", KindUnsupported},
		{"archive.zip", "", KindUnsupported},
	}
	for _, tc := range cases {
		if got := Detect(tc.name, tc.mime); got != tc.want {
			t.Fatalf("Detect(%q, %q) = %v, want %v", tc.name, tc.mime, got, tc.want)
		}
	}
}

func TestExtractTextPlain(t *testing.T) {
	text, err := ExtractText(KindText, "notes.txt", []byte("hello world"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractTextRejectsBinary(t *testing.T) {
	if _, err := ExtractText(KindText, "bad.txt", []byte{0xff, 0xfe, 0x00}); err == nil {
		t.Fatal("expected invalid UTF-8 rejection")
	}
}

func TestExtractTextPDFNotLocal(t *testing.T) {
	if _, err := ExtractText(KindPDF, "paper.pdf", []byte("%PDF-1.4")); err == nil {
		t.Fatal("expected pdf extraction to be refused locally")
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	entry, err := writer.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := entry.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextWord(t *testing.T) {
	docXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t></w:r><w:r><w:tab/><w:t>part.</w:t></w:r></w:p>
  </w:body>
</w:document>`
	data := buildDocx(t, docXML)
	text, err := ExtractText(KindWord, "report.docx", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "First paragraph.") {
		t.Fatalf("missing first paragraph in %q", text)
	}
	if !strings.Contains(text, "Second\tpart.") {
		t.Fatalf("tab not preserved in %q", text)
	}
	if !strings.Contains(text, "\n") {
		t.Fatalf("paragraph break lost in %q", text)
	}
}

func TestExtractTextWordMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	entry, _ := writer.Create("word/other.xml")
	_, _ = entry.Write([]byte("<x/>"))
	_ = writer.Close()
	if _, err := ExtractText(KindWord, "report.docx", buf.Bytes()); err == nil {
		t.Fatal("expected missing document.xml error")
	}
}

func TestExtractTextWordNotAZip(t *testing.T) {
	if _, err := ExtractText(KindWord, "report.docx", []byte("plain text")); err == nil {
		t.Fatal("expected zip open failure")
	}
}

func TestFallbackChunks(t *testing.T) {
	content := strings.Repeat("Renewable capacity keeps growing year over year. ", 80)
	chunks := FallbackChunks(content)
	if len(chunks) < 2 {
		t.Fatalf("expected the text to split into multiple chunks, got %d", len(chunks))
	}
	seen := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		if c.ID == "" {
			t.Fatal("chunk id missing")
		}
		if seen[c.ID] {
			t.Fatalf("duplicate chunk id %q", c.ID)
		}
		seen[c.ID] = true
		if strings.TrimSpace(c.Content) == "" {
			t.Fatal("empty chunk content")
		}
	}
}

func TestFallbackChunksEmptyInput(t *testing.T) {
	if chunks := FallbackChunks("   \n  "); chunks != nil {
		t.Fatalf("expected nil for blank input, got %v", chunks)
	}
}
