package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
)

// CopyFailedNotice is shown when writing to the clipboard fails.
const CopyFailedNotice = "Failed to copy text. Please try manually."

// DefaultCopyResetDelay is how long the copy control shows its confirmation.
const DefaultCopyResetDelay = 2 * time.Second

var (
	// ErrClipboard wraps clipboard write failures.
	ErrClipboard = errors.New("controller: clipboard write failed")
	// ErrClipboardUnsupported is returned by SystemClipboard when no
	// clipboard utility is available.
	ErrClipboardUnsupported = errors.New("controller: clipboard unsupported on this system")
)

// Clipboard writes text to a clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard uses the operating system clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

// CopyAction copies the displayed result to the clipboard.
type CopyAction struct {
	source     TextSource
	clipboard  Clipboard
	notifier   Notifier
	control    *Control
	label      string
	copied     string
	resetAfter time.Duration
	afterFunc  func(time.Duration, func())
	logger     *slog.Logger
}

// CopyOption configures a CopyAction.
type CopyOption func(*CopyAction)

// WithClipboard overrides the clipboard (SystemClipboard by default).
func WithClipboard(cb Clipboard) CopyOption {
	return func(a *CopyAction) {
		if cb != nil {
			a.clipboard = cb
		}
	}
}

// WithCopyControl injects the control relabelled on success.
func WithCopyControl(control *Control) CopyOption {
	return func(a *CopyAction) {
		if control != nil {
			a.control = control
		}
	}
}

// WithCopyResetDelay overrides how long the confirmation label stays.
func WithCopyResetDelay(d time.Duration) CopyOption {
	return func(a *CopyAction) {
		if d > 0 {
			a.resetAfter = d
		}
	}
}

// WithCopyScheduler replaces time.AfterFunc for the label reset.
func WithCopyScheduler(fn func(time.Duration, func())) CopyOption {
	return func(a *CopyAction) {
		if fn != nil {
			a.afterFunc = fn
		}
	}
}

// WithCopyLogger sets the diagnostics logger.
func WithCopyLogger(logger *slog.Logger) CopyOption {
	return func(a *CopyAction) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewCopyAction builds a copy action reading from source and reporting
// failures through notifier.
func NewCopyAction(source TextSource, notifier Notifier, options ...CopyOption) (*CopyAction, error) {
	if source == nil {
		return nil, errors.New("controller: copy source is nil")
	}
	if notifier == nil {
		return nil, errors.New("controller: copy notifier is nil")
	}
	a := &CopyAction{
		source:     source,
		clipboard:  SystemClipboard{},
		notifier:   notifier,
		label:      CopyLabel,
		copied:     CopiedLabel,
		resetAfter: DefaultCopyResetDelay,
		afterFunc:  func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		logger:     slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	if a.control == nil {
		a.control = NewControl(a.label)
	}
	return a, nil
}

// Control returns the copy control.
func (a *CopyAction) Control() *Control {
	return a.control
}

// Trigger copies the displayed text verbatim. On success the control shows
// the confirmation label until the reset delay elapses; on failure the error
// is logged, the notice raised and the label left alone.
func (a *CopyAction) Trigger(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text := a.source.Text()
	if err := a.clipboard.WriteAll(text); err != nil {
		a.logger.Error("failed to copy text", "error", err)
		a.notifier.Notify(CopyFailedNotice)
		return fmt.Errorf("%w: %w", ErrClipboard, err)
	}
	a.control.SetLabel(a.copied)
	a.afterFunc(a.resetAfter, func() {
		a.control.SetLabel(a.label)
	})
	return nil
}
