package form_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-cvrewrite/pkg/form"
)

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"job_description": "Job description",
		"experience1":     "Experience 1",
		"companyName":     "Company name",
		"tone":            "Tone",
		"":                "",
		"__":              "",
	}
	for in, want := range cases {
		if got := form.DefaultLabeler(in); got != want {
			t.Errorf("DefaultLabeler(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatePayload_FreshSnapshotWithHidden(t *testing.T) {
	def := form.Definition{
		Fields: []form.Field{
			{Name: "summary"},
			{Name: "tone", Default: "Keep original style"},
		},
		Hidden: map[string]string{"client": "cli"},
	}
	state := form.NewState(def, map[string]string{"summary": "Go developer", " ": "ignored"})

	first := state.Payload()
	want := form.Payload{
		"summary": "Go developer",
		"tone":    "Keep original style",
		"client":  "cli",
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	first["summary"] = "mutated"
	if err := state.Set("tone", "Adapt to job offer tone"); err != nil {
		t.Fatalf("set: %v", err)
	}
	second := state.Payload()
	if second["summary"] != "Go developer" {
		t.Fatalf("payload should not alias state, got %q", second["summary"])
	}
	if second["tone"] != "Adapt to job offer tone" {
		t.Fatalf("expected updated tone, got %q", second["tone"])
	}
}

func TestStateSet_RejectsEmptyName(t *testing.T) {
	state := form.NewState(form.CVDefinition(), nil)
	if err := state.Set("  ", "x"); !errors.Is(err, form.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestCVDefinition(t *testing.T) {
	def := form.CVDefinition()
	if err := def.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := []string{
		"summary", "experience1", "experience2", "education", "skills",
		"languages", "additional", "job_description", "company", "industry", "tone",
	}
	if diff := cmp.Diff(want, def.Names()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if def.EndpointPath() != "/rewrite" {
		t.Fatalf("unexpected endpoint %q", def.EndpointPath())
	}
	tone, ok := def.Field("tone")
	if !ok || tone.Default != form.ToneKeepOriginal || len(tone.Options) != 2 {
		t.Fatalf("unexpected tone field: %+v", tone)
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
endpoint: /v2/rewrite
fields:
  - name: summary
    multiline: true
  - name: company
    label: Employer
hidden:
  locale: en
`)
	def, err := form.ParseYAML(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := form.Definition{
		Endpoint: "/v2/rewrite",
		Fields: []form.Field{
			{Name: "summary", Multiline: true},
			{Name: "company", Label: "Employer"},
		},
		Hidden: map[string]string{"locale": "en"},
	}
	if diff := cmp.Diff(want, def); diff != "" {
		t.Fatalf("definition mismatch (-want +got):\n%s", diff)
	}
	if got := def.Fields[0].DisplayLabel(); got != "Summary" {
		t.Fatalf("derived label = %q", got)
	}
}

func TestParseYAML_InvalidDefinitions(t *testing.T) {
	cases := map[string]string{
		"no fields": "endpoint: /rewrite\n",
		"no name":   "fields:\n  - label: Summary\n",
		"duplicate": "fields:\n  - name: a\n  - name: a\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := form.ParseYAML([]byte(doc)); !errors.Is(err, form.ErrInvalidDefinition) {
				t.Fatalf("expected ErrInvalidDefinition, got %v", err)
			}
		})
	}
}

func TestLoadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.yaml")
	if err := os.WriteFile(path, []byte("company: Acme Corp\nsummary: |\n  line one\n  line two\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	values, err := form.LoadValues(path)
	if err != nil {
		t.Fatalf("load values: %v", err)
	}
	want := map[string]string{
		"company": "Acme Corp",
		"summary": "line one\nline two\n",
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

const rewriteOpenAPI = `{
  "openapi": "3.0.3",
  "info": {"title": "cv", "version": "1.0.0"},
  "paths": {
    "/rewrite": {
      "post": {
        "operationId": "rewriteCV",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "zeta": {"type": "string"},
                  "company": {"type": "string", "title": "Company", "x-order": 2},
                  "summary": {"type": "string", "format": "textarea", "description": "Short pitch", "x-order": 1},
                  "tone": {"type": "string", "enum": ["Keep original style", "Adapt to job offer tone"], "default": "Keep original style"},
                  "token": {"type": "string", "format": "password"}
                }
              }
            }
          }
        },
        "responses": {"200": {"description": "ok"}}
      }
    }
  }
}`

func TestFromOpenAPI(t *testing.T) {
	def, err := form.FromOpenAPI(context.Background(), []byte(rewriteOpenAPI), "", "/rewrite")
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}
	want := form.Definition{
		Endpoint: "/rewrite",
		Fields: []form.Field{
			{Name: "summary", Help: "Short pitch", Multiline: true},
			{Name: "company", Label: "Company"},
			{Name: "token", Secret: true},
			{
				Name:    "tone",
				Default: "Keep original style",
				Options: []string{"Keep original style", "Adapt to job offer tone"},
			},
			{Name: "zeta"},
		},
	}
	if diff := cmp.Diff(want, def); diff != "" {
		t.Fatalf("definition mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOpenAPI_MissingOperation(t *testing.T) {
	if _, err := form.FromOpenAPI(context.Background(), []byte(rewriteOpenAPI), "GET", "/rewrite"); err == nil {
		t.Fatalf("expected error for missing GET operation")
	}
	if _, err := form.FromOpenAPI(context.Background(), []byte(rewriteOpenAPI), "POST", "/other"); err == nil {
		t.Fatalf("expected error for unknown path")
	}
}
