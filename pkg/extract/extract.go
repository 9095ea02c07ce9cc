// Package extract pulls plain text out of the documents users typically keep
// their CV sections and job offers in, so they can prefill form fields.
package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nguyenthenguyen/docx"
)

// Supported media types.
const (
	MimeText = "text/plain"
	MimeHTML = "text/html"
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupported is returned for media types without an extractor.
var ErrUnsupported = errors.New("extract: unsupported file type")

// MimeFromPath maps a file extension to a supported media type.
func MimeFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".text", "":
		return MimeText, nil
	case ".html", ".htm":
		return MimeHTML, nil
	case ".pdf":
		return MimePDF, nil
	case ".docx":
		return MimeDOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}

// File reads path and returns its text.
func File(path string) (string, error) {
	mime, err := MimeFromPath(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("extract: read %s: %w", path, err)
	}
	return Text(mime, data)
}

// Text extracts the text of data according to mime.
func Text(mime string, data []byte) (string, error) {
	switch mime {
	case MimeText:
		return string(data), nil
	case MimeHTML:
		return htmlText(data), nil
	case MimePDF:
		return pdfText(data)
	case MimeDOCX:
		return docxText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mime)
	}
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("extract: read pdf: %w", err)
	}
	var out strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract: pdf page %d: %w", i, err)
		}
		out.WriteString(text)
	}
	return strings.TrimSpace(out.String()), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("extract: read docx: %w", err)
	}
	defer doc.Close()
	text, err := documentText(strings.NewReader(doc.Editable().GetContent()))
	if err != nil {
		return "", fmt.Errorf("extract: parse docx body: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// documentText reduces WordprocessingML to its text runs. Paragraph ends and
// breaks become newlines, tabs stay tabs.
func documentText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var out strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out.String(), nil
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				out.WriteByte('\t')
			case "br", "cr":
				out.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}
}

var (
	htmlPolicyOnce sync.Once
	htmlPolicy     *bluemonday.Policy
)

// htmlText strips markup from a saved web page, such as a job posting.
// Script, style and title content is dropped and each line has its runs of
// whitespace collapsed.
func htmlText(data []byte) string {
	htmlPolicyOnce.Do(func() {
		htmlPolicy = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)
	})
	text := html.UnescapeString(string(htmlPolicy.SanitizeBytes(data)))

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
