package controller

import "sync"

// Default control labels.
const (
	SubmitLabel     = "Rewrite CV"
	SubmitBusyLabel = "Rewriting..."
	CopyLabel       = "Copy to Clipboard"
	CopiedLabel     = "Copied!"
	DownloadLabel   = "Download"
)

// Control models a labelled button that can be disabled. Observers are
// notified after every change.
type Control struct {
	mu        sync.Mutex
	label     string
	disabled  bool
	observers []func(ControlState)
}

// ControlState is a snapshot of a Control.
type ControlState struct {
	Label    string
	Disabled bool
}

// NewControl returns an enabled control with label.
func NewControl(label string) *Control {
	return &Control{label: label}
}

// State returns the current label and enabled flag.
func (c *Control) State() ControlState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ControlState{Label: c.label, Disabled: c.disabled}
}

// Label returns the current label.
func (c *Control) Label() string {
	return c.State().Label
}

// Disabled reports whether the control is disabled.
func (c *Control) Disabled() bool {
	return c.State().Disabled
}

// Observe registers fn to be called with the new state after each change.
func (c *Control) Observe(fn func(ControlState)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// SetLabel changes the label.
func (c *Control) SetLabel(label string) {
	c.update(func() { c.label = label })
}

// Disable disables the control and relabels it.
func (c *Control) Disable(label string) {
	c.update(func() {
		c.disabled = true
		c.label = label
	})
}

// Enable re-enables the control with label.
func (c *Control) Enable(label string) {
	c.update(func() {
		c.disabled = false
		c.label = label
	})
}

func (c *Control) update(apply func()) {
	c.mu.Lock()
	apply()
	state := ControlState{Label: c.label, Disabled: c.disabled}
	observers := append([]func(ControlState){}, c.observers...)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}
