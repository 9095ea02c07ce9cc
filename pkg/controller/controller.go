package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/goliatone/go-cvrewrite/pkg/form"
	"github.com/goliatone/go-cvrewrite/pkg/rewrite"
)

// ErrSuperseded is returned by Submit when a newer submission started before
// this one completed. The view is left to the newer submission.
var ErrSuperseded = errors.New("controller: submission superseded")

// Rewriter performs the network call for a submission.
type Rewriter interface {
	Rewrite(ctx context.Context, payload form.Payload) (string, error)
}

// TextSource exposes the text currently shown in the result region.
type TextSource interface {
	Text() string
}

// Controller is the form submission controller.
type Controller struct {
	mu         sync.Mutex
	client     Rewriter
	view       View
	submit     *Control
	idleLabel  string
	busyLabel  string
	logger     *slog.Logger
	generation uint64
	cancel     context.CancelFunc
	text       string
}

// Option configures a Controller.
type Option func(*Controller)

// WithSubmitControl injects the submit control. A control labelled
// SubmitLabel is created otherwise.
func WithSubmitControl(control *Control) Option {
	return func(c *Controller) {
		if control != nil {
			c.submit = control
		}
	}
}

// WithSubmitLabels overrides the idle and busy labels of the submit control.
func WithSubmitLabels(idle, busy string) Option {
	return func(c *Controller) {
		if idle != "" {
			c.idleLabel = idle
		}
		if busy != "" {
			c.busyLabel = busy
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a controller around client and view.
func New(client Rewriter, view View, options ...Option) (*Controller, error) {
	if client == nil {
		return nil, errors.New("controller: rewriter is nil")
	}
	if view == nil {
		return nil, errors.New("controller: view is nil")
	}
	c := &Controller{
		client:    client,
		view:      view,
		idleLabel: SubmitLabel,
		busyLabel: SubmitBusyLabel,
		logger:    slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.submit == nil {
		c.submit = NewControl(c.idleLabel)
	} else {
		c.submit.Enable(c.idleLabel)
	}
	return c, nil
}

// SubmitControl returns the submit control.
func (c *Controller) SubmitControl() *Control {
	return c.submit
}

// Text returns the text currently displayed in the result region, or "" when
// no result is shown.
func (c *Controller) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Submit gathers the payload from state, posts it and renders the outcome.
// Whatever happens, the loading indicator is hidden and the submit control
// restored once this submission completes, unless a newer submission has
// taken over the view, in which case ErrSuperseded is returned and the view
// is left untouched.
func (c *Controller) Submit(ctx context.Context, state *form.State) (string, error) {
	reqCtx, gen := c.begin(ctx)
	payload := state.Payload()

	text, err := c.client.Rewrite(reqCtx, payload)
	if !c.finish(gen, text, err) {
		return "", ErrSuperseded
	}
	return text, err
}

func (c *Controller) begin(ctx context.Context) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.text = ""
	c.view.Reset()
	c.view.ShowLoading()
	c.submit.Disable(c.busyLabel)
	return reqCtx, c.generation
}

func (c *Controller) finish(gen uint64, text string, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug("dropping stale rewrite result", "generation", gen, "current", c.generation)
		return false
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if err == nil {
		c.text = text
		c.view.ShowResult(text)
	} else {
		c.logger.Error("error during rewrite", "error", err, "transport", rewrite.IsTransport(err))
		c.view.ShowError("Error: " + rewrite.Message(err))
	}
	c.view.HideLoading()
	c.submit.Enable(c.idleLabel)
	return true
}
