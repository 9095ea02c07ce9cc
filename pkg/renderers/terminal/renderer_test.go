package terminal_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-cvrewrite/pkg/controller"
	"github.com/goliatone/go-cvrewrite/pkg/renderers/terminal"
)

func newRenderer() (*terminal.Renderer, *bytes.Buffer, *bytes.Buffer) {
	var out, diag bytes.Buffer
	r := terminal.New(
		terminal.WithOutput(&out),
		terminal.WithDiagnostics(&diag),
		terminal.WithTheme(terminal.Theme{ErrorPrefix: "E ", NoticePrefix: "N ", ControlPrefix: "C "}),
	)
	return r, &out, &diag
}

func TestRenderer_ResultIsLiteral(t *testing.T) {
	r, out, _ := newRenderer()

	r.Reset()
	r.ShowLoading()
	r.ShowResult("<b>Hello</b> & {{ name }}")
	r.HideLoading()

	if got := out.String(); got != "<b>Hello</b> & {{ name }}\n" {
		t.Fatalf("stdout = %q", got)
	}
	want := terminal.Snapshot{ResultVisible: true, Result: "<b>Hello</b> & {{ name }}"}
	if diff := cmp.Diff(want, r.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_NeutralisesControlSequences(t *testing.T) {
	r, out, diag := newRenderer()

	result := "CV\x1b[2J\r\nline\x07\tend\u009b"
	r.ShowResult(result)
	r.ShowError("Error: \x1b]0;owned\x07bad")
	r.Notify("Failed to save file: \x1b[31mdisk")

	if got, want := out.String(), "CV\uFFFD[2J\nline\uFFFD\tend\uFFFD\n"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
	wantDiag := "E Error: \uFFFD]0;owned\uFFFDbad\nN Failed to save file: \uFFFD[31mdisk\n"
	if diag.String() != wantDiag {
		t.Fatalf("diag = %q, want %q", diag.String(), wantDiag)
	}
	if got := r.Snapshot().Result; got != result {
		t.Fatalf("snapshot result = %q, want verbatim %q", got, result)
	}
}

func TestRenderer_ErrorAndReset(t *testing.T) {
	r, out, diag := newRenderer()

	r.ShowError("Error: Bad input")
	if !strings.Contains(diag.String(), "E Error: Bad input\n") {
		t.Fatalf("diag = %q", diag.String())
	}
	if out.Len() != 0 {
		t.Fatalf("errors must not reach stdout")
	}

	r.Reset()
	if diff := cmp.Diff(terminal.Snapshot{}, r.Snapshot()); diff != "" {
		t.Fatalf("reset should hide regions (-want +got):\n%s", diff)
	}
}

func TestRenderer_NoticesAndControls(t *testing.T) {
	r, _, diag := newRenderer()
	control := controller.NewControl(controller.CopyLabel)
	r.Track(control)

	control.SetLabel(controller.CopiedLabel)
	r.Notify(controller.CopyFailedNotice)

	want := "C Copied!\nN Failed to copy text. Please try manually.\n"
	if diag.String() != want {
		t.Fatalf("diag = %q, want %q", diag.String(), want)
	}
}
