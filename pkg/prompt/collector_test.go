package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-cvrewrite/pkg/form"
)

type stubDriver struct {
	inputs    []string
	textAreas []string
	passwords []string
	selectIdx []int
	confirm   []bool
	messages  []string
	defaults  []string
	inputPos  int
	textPos   int
	passPos   int
	selectPos int
	confPos   int
	failWith  error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.failWith != nil {
		return "", s.failWith
	}
	s.defaults = append(s.defaults, cfg.Default)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	s.defaults = append(s.defaults, cfg.Default)
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.defaults = append(s.defaults, cfg.Default)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if cfg.DefaultIndex >= 0 {
		s.defaults = append(s.defaults, cfg.Options[cfg.DefaultIndex])
	}
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confPos]
	s.confPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.messages = append(s.messages, msg)
	return nil
}

func testDefinition() form.Definition {
	return form.Definition{
		Fields: []form.Field{
			{Name: "summary", Multiline: true},
			{Name: "company"},
			{Name: "api_key", Secret: true},
			{Name: "tone", Default: "Keep original style", Options: []string{"Keep original style", "Adapt to job offer tone"}},
		},
	}
}

func TestCollect_RoutesFieldsToPromptKinds(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Acme Corp"},
		textAreas: []string{"Backend engineer"},
		passwords: []string{"s3cret"},
		selectIdx: []int{1},
	}
	state := form.NewState(testDefinition(), nil)
	collector := NewCollector(WithDriver(driver))

	if err := collector.Collect(context.Background(), state); err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := form.Payload{
		"summary": "Backend engineer",
		"company": "Acme Corp",
		"api_key": "s3cret",
		"tone":    "Adapt to job offer tone",
	}
	if diff := cmp.Diff(want, state.Payload()); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if driver.inputPos != 1 || driver.textPos != 1 || driver.passPos != 1 || driver.selectPos != 1 {
		t.Fatalf("prompts not consumed as expected: %+v", driver)
	}
}

func TestCollect_OffersPresetAsDefault(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Acme Corp"},
		textAreas: []string{"kept"},
		passwords: []string{""},
		selectIdx: []int{0},
	}
	state := form.NewState(testDefinition(), map[string]string{"summary": "from file"})

	if err := NewCollector(WithDriver(driver)).Collect(context.Background(), state); err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := []string{"from file", "", "", "Keep original style"}
	if diff := cmp.Diff(want, driver.defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_SkipPreset(t *testing.T) {
	driver := &stubDriver{passwords: []string{"k"}}
	state := form.NewState(testDefinition(), map[string]string{
		"summary": "ready",
		"company": "Acme",
	})

	if err := NewCollector(WithDriver(driver), WithSkipPreset(true)).Collect(context.Background(), state); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if driver.textPos != 0 || driver.inputPos != 0 || driver.selectPos != 0 {
		t.Fatalf("preset fields should be skipped: %+v", driver)
	}
	if driver.passPos != 1 {
		t.Fatalf("empty secret field should be prompted")
	}
}

func TestCollect_PropagatesAbort(t *testing.T) {
	driver := &stubDriver{textAreas: []string{"x"}, failWith: ErrAborted}
	state := form.NewState(testDefinition(), nil)

	err := NewCollector(WithDriver(driver)).Collect(context.Background(), state)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestCollect_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewCollector(WithDriver(&stubDriver{})).Collect(ctx, form.NewState(testDefinition(), nil))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
