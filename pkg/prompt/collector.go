package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-cvrewrite/pkg/form"
)

// Collector walks a form definition in order and stores each answer in the
// form state.
type Collector struct {
	driver     Driver
	skipPreset bool
}

// Option configures a Collector.
type Option func(*Collector)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(c *Collector) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithSkipPreset skips fields that already hold a non-empty value instead of
// offering that value as the default answer.
func WithSkipPreset(skip bool) Option {
	return func(c *Collector) {
		c.skipPreset = skip
	}
}

// NewCollector builds a collector using the survey driver unless overridden.
func NewCollector(options ...Option) *Collector {
	c := &Collector{driver: NewSurveyDriver()}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Driver exposes the prompt driver so callers can ask follow-up questions in
// the same session.
func (c *Collector) Driver() Driver {
	return c.driver
}

// Collect prompts for every field of the state's definition.
func (c *Collector) Collect(ctx context.Context, state *form.State) error {
	if c.driver == nil {
		return ErrNoDriver
	}
	for _, field := range state.Definition().Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		current, _ := state.Value(field.Name)
		if c.skipPreset && strings.TrimSpace(current) != "" {
			continue
		}
		answer, err := c.ask(ctx, field, current)
		if err != nil {
			return fmt.Errorf("prompt %s: %w", field.Name, err)
		}
		if err := state.Set(field.Name, answer); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) ask(ctx context.Context, field form.Field, current string) (string, error) {
	label := field.DisplayLabel()
	switch {
	case len(field.Options) > 0:
		idx, err := c.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      field.Options,
			DefaultIndex: indexOf(field.Options, current),
			Help:         field.Help,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(field.Options) {
			return current, nil
		}
		return field.Options[idx], nil
	case field.Secret:
		return c.driver.Password(ctx, InputConfig{Message: label, Default: current, Help: field.Help})
	case field.Multiline:
		return c.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current, Help: field.Help})
	default:
		return c.driver.Input(ctx, InputConfig{Message: label, Default: current, Help: field.Help})
	}
}
