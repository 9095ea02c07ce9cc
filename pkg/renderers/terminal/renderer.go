// Package terminal renders a rewrite session on a terminal. The result region
// is the standard output stream, everything else (progress, errors, notices,
// control labels) goes to the diagnostic stream so results can be piped.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/goliatone/go-cvrewrite/pkg/controller"
)

// Theme captures the message prefixes used on the diagnostic stream.
type Theme struct {
	InfoPrefix    string
	ErrorPrefix   string
	NoticePrefix  string
	ControlPrefix string
}

// DefaultTheme is used unless overridden.
var DefaultTheme = Theme{
	InfoPrefix:    "… ",
	ErrorPrefix:   "✗ ",
	NoticePrefix:  "! ",
	ControlPrefix: "» ",
}

// Snapshot describes the visible regions.
type Snapshot struct {
	Loading       bool
	ResultVisible bool
	ErrorVisible  bool
	Result        string
	Error         string
}

// Renderer implements controller.View and controller.Notifier.
type Renderer struct {
	mu             sync.Mutex
	out            io.Writer
	diag           io.Writer
	theme          Theme
	loadingMessage string
	state          Snapshot
}

var (
	_ controller.View     = (*Renderer)(nil)
	_ controller.Notifier = (*Renderer)(nil)
)

// Option configures the renderer.
type Option func(*Renderer)

// WithOutput sets the result stream (stdout by default).
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.out = w
		}
	}
}

// WithDiagnostics sets the stream for progress, errors and notices (stderr
// by default).
func WithDiagnostics(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.diag = w
		}
	}
}

// WithTheme overrides the message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithLoadingMessage overrides the loading indicator text.
func WithLoadingMessage(msg string) Option {
	return func(r *Renderer) {
		if msg != "" {
			r.loadingMessage = msg
		}
	}
}

// New builds a terminal renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{
		out:            os.Stdout,
		diag:           os.Stderr,
		theme:          DefaultTheme,
		loadingMessage: "Rewriting your CV...",
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Snapshot returns the current region state.
func (r *Renderer) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = Snapshot{Loading: r.state.Loading}
}

func (r *Renderer) ShowLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Loading = true
	fmt.Fprintln(r.diag, r.theme.InfoPrefix+r.loadingMessage)
}

func (r *Renderer) HideLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Loading = false
}

// ShowResult writes text literally, with control characters neutralised. The
// snapshot keeps the original text. A trailing newline is added when missing
// so the prompt does not end up on the last line of the result.
func (r *Renderer) ShowResult(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.ResultVisible = true
	r.state.Result = text
	shown := printable(text)
	io.WriteString(r.out, shown)
	if !strings.HasSuffix(shown, "\n") {
		io.WriteString(r.out, "\n")
	}
}

func (r *Renderer) ShowError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.ErrorVisible = true
	r.state.Error = message
	fmt.Fprintln(r.diag, r.theme.ErrorPrefix+printable(message))
}

// Notify prints a notice on the diagnostic stream.
func (r *Renderer) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.diag, r.theme.NoticePrefix+printable(message))
}

// Track echoes label changes of control on the diagnostic stream.
func (r *Renderer) Track(control *controller.Control) {
	control.Observe(func(state controller.ControlState) {
		r.mu.Lock()
		defer r.mu.Unlock()
		fmt.Fprintln(r.diag, r.theme.ControlPrefix+state.Label)
	})
}

// printable replaces control characters other than newline and tab with
// U+FFFD so server text cannot drive the terminal. CRLF line endings are
// kept as plain newlines.
func printable(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			return r
		}
		return unicode.ReplacementChar
	}, s)
}
