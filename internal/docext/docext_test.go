package docext

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func newTestExtractor() *Extractor {
	return New(10<<20, nil)
}

func TestExtractPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")

	// Invalid UTF-8 byte in the middle must be dropped, not replaced.
	content := append([]byte("hello "), 0xff)
	content = append(content, []byte("world")...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := newTestExtractor().ExtractFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello world" {
		t.Errorf("got %q, want %q", text, "hello world")
	}
}

func TestExtractUnrecognizedExtensionFallsBackToText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.log")
	if err := os.WriteFile(path, []byte("line one\nline two"), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := newTestExtractor().ExtractFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "line one\nline two" {
		t.Errorf("got %q", text)
	}
}

func TestExtractJSONNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"b":1,"a":{"x":true}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := newTestExtractor().ExtractFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\n  \"a\": {\n    \"x\": true\n  },\n  \"b\": 1\n}"
	if text != want {
		t.Errorf("got:\n%s\nwant:\n%s", text, want)
	}
}

func TestExtractJSONInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte(`{nope`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := newTestExtractor().ExtractFile(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), ".json") {
		t.Errorf("error should name the extension: %v", err)
	}
}

func TestExtractWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.xlsx")

	f := excelize.NewFile()
	if err := f.SetCellValue("Sheet1", "A1", "a"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Sheet1", "B1", "b"); err != nil {
		t.Fatal(err)
	}
	// Row 2 left entirely blank, row 3 has one value.
	if err := f.SetCellValue("Sheet1", "A3", "c"); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	text, err := newTestExtractor().ExtractFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(text, "\n")
	if lines[0] != "Sheet: Sheet1" {
		t.Errorf("missing sheet header, got %q", lines[0])
	}
	if lines[1] != "a\tb" {
		t.Errorf("row 1: got %q, want %q", lines[1], "a\tb")
	}
	for _, l := range lines[1:] {
		if strings.TrimSpace(l) == "" {
			t.Errorf("blank row should be skipped, got lines %q", lines)
		}
	}
	if lines[len(lines)-1] != "c" {
		t.Errorf("last row: got %q, want %q", lines[len(lines)-1], "c")
	}
}

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(out)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
}

const wordXMLNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func TestExtractDocx(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.docx")

	docXML := `<?xml version="1.0"?>
<w:document ` + wordXMLNS + `><w:body>
<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
<w:p><w:r><w:t>Second</w:t></w:r><w:r><w:t> run</w:t></w:r></w:p>
<w:p/>
</w:body></w:document>`
	writeZip(t, path, map[string]string{"word/document.xml": docXML})

	text, err := newTestExtractor().ExtractFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "First paragraph\nSecond run\n"
	if text != want {
		t.Errorf("got %q, want %q", text, want)
	}
}

func TestExtractDocxNotAnArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.doc")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := newTestExtractor().ExtractFile(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), ".doc") {
		t.Errorf("error should name the extension: %v", err)
	}
}

const slideXMLNS = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`

func TestExtractPresentation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.pptx")

	slide1 := `<?xml version="1.0"?>
<p:sld ` + slideXMLNS + `><p:cSld><p:spTree>
<p:sp><p:txBody><a:p><a:r><a:t>Title</a:t></a:r></a:p></p:txBody></p:sp>
<p:sp><p:txBody><a:p><a:r><a:t>Body line</a:t></a:r></a:p></p:txBody></p:sp>
</p:spTree></p:cSld></p:sld>`
	slide2 := `<?xml version="1.0"?>
<p:sld ` + slideXMLNS + `><p:cSld><p:spTree>
<p:sp><p:txBody><a:p><a:r><a:t>Second slide</a:t></a:r></a:p></p:txBody></p:sp>
</p:spTree></p:cSld></p:sld>`
	writeZip(t, path, map[string]string{
		"ppt/slides/slide1.xml": slide1,
		"ppt/slides/slide2.xml": slide2,
	})

	text, err := newTestExtractor().ExtractFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Slide 1:\nTitle\nBody line\nSlide 2:\nSecond slide"
	if text != want {
		t.Errorf("got %q, want %q", text, want)
	}
}

func TestExtractHTML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	content := `<html><head><style>p { color: red }</style></head>
<body><h1> Heading </h1><p>Some <b>bold</b> text.</p>
<script>var x = 1;</script></body></html>`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := newTestExtractor().ExtractFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(text, "color: red") || strings.Contains(text, "var x") {
		t.Errorf("script/style leaked into text: %q", text)
	}
	if !strings.Contains(text, "Heading") || !strings.Contains(text, "bold") {
		t.Errorf("visible text missing: %q", text)
	}
	if strings.Contains(text, " Heading ") {
		t.Errorf("block whitespace should be stripped: %q", text)
	}
}

func TestExtractFileTooLarge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	if err := os.WriteFile(path, make([]byte, 128), 0o644); err != nil {
		t.Fatal(err)
	}

	e := New(64, nil)
	_, err := e.ExtractFile(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Errorf("got %v", err)
	}
}

func TestExtractEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, []byte("  \n\t\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := newTestExtractor().ExtractFile(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "no text could be extracted") {
		t.Errorf("got %v", err)
	}
}

func TestExtractPDFFixture(t *testing.T) {
	fixture := filepath.Join("testdata", "sample.pdf")
	if _, err := os.Stat(fixture); os.IsNotExist(err) {
		t.Skip("test fixture not found")
	}

	text, err := newTestExtractor().ExtractFile(fixture)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		t.Error("expected non-empty text from fixture PDF")
	}
}
