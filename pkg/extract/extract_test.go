package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMimeFromPath(t *testing.T) {
	cases := map[string]string{
		"offer.txt": MimeText,
		"notes.MD":  MimeText,
		"cv.pdf":    MimePDF,
		"cv.DOCX":   MimeDOCX,
		"README":    MimeText,
		"job.htm":   MimeHTML,
	}
	for path, want := range cases {
		got, err := MimeFromPath(path)
		if err != nil {
			t.Fatalf("MimeFromPath(%q): %v", path, err)
		}
		if got != want {
			t.Errorf("MimeFromPath(%q) = %q, want %q", path, got, want)
		}
	}
	if _, err := MimeFromPath("cv.odt"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestFile_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offer.txt")
	if err := os.WriteFile(path, []byte("Senior Go engineer\nRemote"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := File(path)
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if got != "Senior Go engineer\nRemote" {
		t.Fatalf("got %q", got)
	}
}

func TestText_Errors(t *testing.T) {
	if _, err := Text("image/png", nil); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if _, err := Text(MimePDF, []byte("not a pdf")); err == nil {
		t.Fatalf("expected pdf error")
	}
	if _, err := Text(MimeDOCX, []byte("not a zip")); err == nil {
		t.Fatalf("expected docx error")
	}
}

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func docxFixture(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document ` + wordNS + `><w:body>` + body + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := io.WriteString(w, content); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestText_DOCX(t *testing.T) {
	body := `<w:p><w:r><w:t xml:space="preserve">Caf&#233; &#x2013; R&amp;D</w:t></w:r><w:r><w:tab/><w:t>x</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Line</w:t><w:br/><w:t>two</w:t></w:r></w:p>`
	got, err := Text(MimeDOCX, docxFixture(t, body))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	want := "Café – R&D\tx\nLine\ntwo"
	if got != want {
		t.Fatalf("docx text = %q, want %q", got, want)
	}
}

func TestDocumentText_MalformedXML(t *testing.T) {
	if _, err := documentText(strings.NewReader(`<w:p><w:t>open`)); err == nil {
		t.Fatalf("expected error for truncated document")
	}
}

func TestText_HTML(t *testing.T) {
	page := `<html><head><title>Careers</title><style>p { color: red }</style></head>
<body>
  <h1>Senior   Go engineer</h1>
  <p>R&amp;D team &lt;remote&gt;</p><script>track()</script>
</body></html>`
	got, err := Text(MimeHTML, []byte(page))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	want := "Senior Go engineer\nR&D team <remote>"
	if got != want {
		t.Fatalf("html text = %q, want %q", got, want)
	}
}
