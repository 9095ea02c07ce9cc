package download

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

const (
	// DefaultFilenameTemplate composes the saved file name from the sanitised
	// company value.
	DefaultFilenameTemplate = "rewritten_cv_{{ company|safe }}.txt"
	// DefaultCompany replaces an empty company value.
	DefaultCompany = "company"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeCompany replaces whitespace runs with underscores and falls back to
// DefaultCompany when the value is empty. Path separators become underscores
// as well so the result is always a single path element.
func SanitizeCompany(company string) string {
	if company == "" {
		company = DefaultCompany
	}
	name := whitespaceRun.ReplaceAllString(company, "_")
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	if name == "." || name == ".." {
		name = strings.Repeat("_", len(name))
	}
	return name
}

// Namer renders file names from a pongo2 template. The template sees the
// sanitised value as "company".
type Namer struct {
	mu   sync.Mutex
	tmpl *pongo2.Template
}

// NewNamer compiles the filename template. An empty template selects
// DefaultFilenameTemplate.
func NewNamer(template string) (*Namer, error) {
	if strings.TrimSpace(template) == "" {
		template = DefaultFilenameTemplate
	}
	tmpl, err := pongo2.FromString(template)
	if err != nil {
		return nil, fmt.Errorf("download: parse filename template: %w", err)
	}
	return &Namer{tmpl: tmpl}, nil
}

// Filename returns the file name for company.
func (n *Namer) Filename(company string) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	out, err := n.tmpl.Execute(pongo2.Context{"company": SanitizeCompany(company)})
	if err != nil {
		return "", fmt.Errorf("download: render filename: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" || strings.ContainsAny(out, `/\`) {
		return "", errors.New("download: filename template produced an invalid name")
	}
	return out, nil
}
