package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-cvrewrite/pkg/download"
	"github.com/goliatone/go-cvrewrite/pkg/form"
)

// FieldReader reads the current value of a form field.
type FieldReader interface {
	Value(name string) (string, bool)
}

// DownloadAction saves the displayed result as a plain-text file named after
// the company field.
type DownloadAction struct {
	source       TextSource
	fields       FieldReader
	companyField string
	namer        *download.Namer
	saver        download.Saver
	notifier     Notifier
	control      *Control
	logger       *slog.Logger
}

// DownloadOption configures a DownloadAction.
type DownloadOption func(*DownloadAction)

// WithCompanyField overrides the field used to name the file.
func WithCompanyField(name string) DownloadOption {
	return func(a *DownloadAction) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			a.companyField = trimmed
		}
	}
}

// WithNamer overrides the filename template.
func WithNamer(namer *download.Namer) DownloadOption {
	return func(a *DownloadAction) {
		if namer != nil {
			a.namer = namer
		}
	}
}

// WithDownloadNotifier reports save failures to the user.
func WithDownloadNotifier(n Notifier) DownloadOption {
	return func(a *DownloadAction) {
		a.notifier = n
	}
}

// WithDownloadControl injects the download control.
func WithDownloadControl(control *Control) DownloadOption {
	return func(a *DownloadAction) {
		if control != nil {
			a.control = control
		}
	}
}

// WithDownloadLogger sets the diagnostics logger.
func WithDownloadLogger(logger *slog.Logger) DownloadOption {
	return func(a *DownloadAction) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewDownloadAction builds a download action.
func NewDownloadAction(source TextSource, fields FieldReader, saver download.Saver, options ...DownloadOption) (*DownloadAction, error) {
	if source == nil || fields == nil || saver == nil {
		return nil, errors.New("controller: download needs a source, a field reader and a saver")
	}
	a := &DownloadAction{
		source:       source,
		fields:       fields,
		companyField: form.CompanyField,
		saver:        saver,
		logger:       slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	if a.namer == nil {
		namer, err := download.NewNamer("")
		if err != nil {
			return nil, err
		}
		a.namer = namer
	}
	if a.control == nil {
		a.control = NewControl(DownloadLabel)
	}
	return a, nil
}

// Control returns the download control.
func (a *DownloadAction) Control() *Control {
	return a.control
}

// Filename returns the name the next download would be saved under.
func (a *DownloadAction) Filename() (string, error) {
	company, _ := a.fields.Value(a.companyField)
	return a.namer.Filename(company)
}

// Trigger saves the displayed text verbatim and returns where it was saved.
func (a *DownloadAction) Trigger(ctx context.Context) (string, error) {
	text := a.source.Text()
	name, err := a.Filename()
	if err != nil {
		return "", a.fail(err)
	}
	location, err := a.saver.Save(ctx, name, download.ContentTypeText, strings.NewReader(text))
	if err != nil {
		return "", a.fail(err)
	}
	a.logger.Info("saved rewritten cv", "file", location, "bytes", len(text))
	return location, nil
}

func (a *DownloadAction) fail(err error) error {
	a.logger.Error("failed to save text", "error", err)
	if a.notifier != nil {
		a.notifier.Notify(fmt.Sprintf("Failed to save file: %v", err))
	}
	return err
}
