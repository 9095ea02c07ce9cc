package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-cvrewrite/internal/config"
	"github.com/goliatone/go-cvrewrite/internal/logger"
	"github.com/goliatone/go-cvrewrite/pkg/controller"
	"github.com/goliatone/go-cvrewrite/pkg/download"
	"github.com/goliatone/go-cvrewrite/pkg/extract"
	"github.com/goliatone/go-cvrewrite/pkg/form"
	"github.com/goliatone/go-cvrewrite/pkg/prompt"
	"github.com/goliatone/go-cvrewrite/pkg/renderers/terminal"
	"github.com/goliatone/go-cvrewrite/pkg/rewrite"
)

// errSubmitFailed marks a submission whose error was already shown.
var errSubmitFailed = errors.New("submission failed")

type options struct {
	configPath string
	envFile    string
	baseURL    string
	endpoint   string
	formPath   string
	openAPI    string
	valuesPath string
	set        kvFlag
	prefill    kvFlag
	noPrompt   bool
	onlyEmpty  bool
	copy       bool
	download   bool
	outDir     string
	timeout    time.Duration
	logLevel   string
	logFormat  string
}

// kvFlag collects repeatable name=value flags.
type kvFlag struct {
	keys   []string
	values map[string]string
}

func (f *kvFlag) String() string {
	if f == nil {
		return ""
	}
	parts := make([]string, 0, len(f.keys))
	for _, key := range f.keys {
		parts = append(parts, key+"="+f.values[key])
	}
	return strings.Join(parts, ",")
}

func (f *kvFlag) Set(raw string) error {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("expected name=value, got %q", raw)
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, seen := f.values[key]; !seen {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
	return nil
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("cvrewrite", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&opts.envFile, "env-file", "", "Path to a .env file (default .env when present)")
	fs.StringVar(&opts.baseURL, "url", "", "Base URL of the rewrite server")
	fs.StringVar(&opts.endpoint, "endpoint", "", "Endpoint path (default from the form definition, /rewrite)")
	fs.StringVar(&opts.formPath, "form", "", "YAML form definition (built-in CV form when empty)")
	fs.StringVar(&opts.openAPI, "openapi", "", "OpenAPI document describing the endpoint request body")
	fs.StringVar(&opts.valuesPath, "values", "", "YAML file with field values")
	fs.Var(&opts.set, "set", "Set a field value, name=value (repeatable)")
	fs.Var(&opts.prefill, "prefill", "Fill a field from a .txt/.md/.html/.pdf/.docx file, name=path (repeatable)")
	fs.BoolVar(&opts.noPrompt, "no-prompt", false, "Submit without prompting for fields")
	fs.BoolVar(&opts.onlyEmpty, "prompt-missing", false, "Only prompt for fields that have no value yet")
	fs.BoolVar(&opts.copy, "copy", false, "Copy the rewritten CV to the clipboard")
	fs.BoolVar(&opts.download, "download", false, "Save the rewritten CV to a file")
	fs.StringVar(&opts.outDir, "out-dir", "", "Directory downloads are saved to")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Request timeout (0 waits indefinitely)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.logFormat, "log-format", "", "Log format (text, json)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	var err error
	switch {
	case fs.NArg() > 0:
		err = fmt.Errorf("unexpected arguments: %v", fs.Args())
	case opts.noPrompt && opts.onlyEmpty:
		err = errors.New("-no-prompt and -prompt-missing are mutually exclusive")
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return options{}, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, opts, prompt.NewSurveyDriver(), os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, errSubmitFailed):
		stop()
		os.Exit(1)
	case errors.Is(err, prompt.ErrAborted):
		stop()
		os.Exit(130)
	default:
		log.Fatalf("cvrewrite: %v", err)
	}
}

func run(ctx context.Context, opts options, driver prompt.Driver, stdout, stderr io.Writer) error {
	if err := config.LoadEnvFile(opts.envFile, opts.envFile != ""); err != nil {
		return err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(cfg.Log)
	ctx = logger.WithSessionID(ctx, uuid.NewString())
	lg := logger.FromContext(ctx)

	def, err := loadDefinition(ctx, cfg)
	if err != nil {
		return err
	}
	prefill, err := collectPrefill(cfg, opts)
	if err != nil {
		return err
	}
	state := form.NewState(def, prefill)

	view := terminal.New(terminal.WithOutput(stdout), terminal.WithDiagnostics(stderr))

	if !opts.noPrompt {
		collector := prompt.NewCollector(
			prompt.WithDriver(driver),
			prompt.WithSkipPreset(opts.onlyEmpty),
		)
		if err := collector.Collect(ctx, state); err != nil {
			return err
		}
	}

	client, err := newClient(cfg, def, lg)
	if err != nil {
		return err
	}
	ctrl, err := controller.New(client, view, controller.WithLogger(lg))
	if err != nil {
		return err
	}
	view.Track(ctrl.SubmitControl())
	if _, err := ctrl.Submit(ctx, state); err != nil {
		return errSubmitFailed
	}

	copyControl := controller.NewControl(controller.CopyLabel)
	view.Track(copyControl)
	copier, err := controller.NewCopyAction(ctrl, view,
		controller.WithCopyControl(copyControl),
		controller.WithCopyResetDelay(cfg.Copy.ResetDelay.Std()),
		controller.WithCopyLogger(lg),
	)
	if err != nil {
		return err
	}

	namer, err := download.NewNamer(cfg.Download.FilenameTemplate)
	if err != nil {
		return err
	}
	downloader, err := controller.NewDownloadAction(ctrl, state, download.NewDirSaver(cfg.Download.Dir),
		controller.WithNamer(namer),
		controller.WithCompanyField(cfg.Download.CompanyField),
		controller.WithDownloadNotifier(view),
		controller.WithDownloadLogger(lg),
	)
	if err != nil {
		return err
	}

	return runActions(ctx, opts, driver, copier, downloader, stderr)
}

// runActions performs the result actions requested by flags, or asks for them
// when running interactively. Action failures are reported but do not fail
// the run.
func runActions(ctx context.Context, opts options, driver prompt.Driver, copier *controller.CopyAction, downloader *controller.DownloadAction, stderr io.Writer) error {
	doCopy, doDownload := opts.copy, opts.download
	if !opts.noPrompt && !doCopy && !doDownload {
		var err error
		if doCopy, err = driver.Confirm(ctx, prompt.ConfirmConfig{Message: controller.CopyLabel + "?"}); err != nil {
			return err
		}
		name, _ := downloader.Filename()
		if doDownload, err = driver.Confirm(ctx, prompt.ConfirmConfig{Message: fmt.Sprintf("Save as %s?", name)}); err != nil {
			return err
		}
	}

	if doCopy {
		_ = copier.Trigger(ctx)
	}
	if doDownload {
		if path, err := downloader.Trigger(ctx); err == nil {
			fmt.Fprintf(stderr, "Saved to %s\n", path)
		}
	}
	return nil
}

func applyFlags(cfg *config.Config, opts options) {
	if opts.baseURL != "" {
		cfg.Server.BaseURL = opts.baseURL
	}
	if opts.endpoint != "" {
		cfg.Server.Endpoint = opts.endpoint
	}
	if opts.timeout > 0 {
		cfg.Server.Timeout = config.Duration(opts.timeout)
	}
	if opts.formPath != "" {
		cfg.Form.Definition = opts.formPath
		cfg.Form.OpenAPI = ""
	}
	if opts.openAPI != "" {
		cfg.Form.OpenAPI = opts.openAPI
		cfg.Form.Definition = ""
	}
	if opts.valuesPath != "" {
		cfg.Form.Values = opts.valuesPath
	}
	if opts.outDir != "" {
		cfg.Download.Dir = opts.outDir
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
}

func loadDefinition(ctx context.Context, cfg *config.Config) (form.Definition, error) {
	var (
		def form.Definition
		err error
	)
	switch {
	case cfg.Form.OpenAPI != "":
		endpoint := cfg.Server.Endpoint
		if endpoint == "" {
			endpoint = form.DefaultEndpoint
		}
		var data []byte
		data, err = os.ReadFile(cfg.Form.OpenAPI)
		if err != nil {
			return form.Definition{}, fmt.Errorf("read openapi document: %w", err)
		}
		def, err = form.FromOpenAPI(ctx, data, http.MethodPost, endpoint)
	case cfg.Form.Definition != "":
		def, err = form.LoadYAML(cfg.Form.Definition)
	default:
		def = form.CVDefinition()
	}
	if err != nil {
		return form.Definition{}, err
	}
	if cfg.Server.Endpoint != "" {
		def.Endpoint = cfg.Server.Endpoint
	}
	return def, nil
}

// collectPrefill merges the values file, prefill documents and -set flags, in
// increasing precedence.
func collectPrefill(cfg *config.Config, opts options) (map[string]string, error) {
	values := make(map[string]string)
	if cfg.Form.Values != "" {
		loaded, err := form.LoadValues(cfg.Form.Values)
		if err != nil {
			return nil, err
		}
		for k, v := range loaded {
			values[k] = v
		}
	}
	for _, name := range opts.prefill.keys {
		text, err := extract.File(opts.prefill.values[name])
		if err != nil {
			return nil, fmt.Errorf("prefill %s: %w", name, err)
		}
		values[name] = text
	}
	for _, name := range opts.set.keys {
		values[name] = opts.set.values[name]
	}
	return values, nil
}

func newClient(cfg *config.Config, def form.Definition, lg *slog.Logger) (*rewrite.Client, error) {
	clientOpts := []rewrite.Option{
		rewrite.WithEndpoint(def.EndpointPath()),
		rewrite.WithHTTPClient(&http.Client{Timeout: cfg.Server.Timeout.Std()}),
		rewrite.WithLogger(lg),
	}
	for name, value := range cfg.Server.Headers {
		clientOpts = append(clientOpts, rewrite.WithHeader(name, value))
	}
	if cfg.Server.Token != "" {
		clientOpts = append(clientOpts, rewrite.WithHeader("Authorization", "Bearer "+cfg.Server.Token))
	}
	return rewrite.New(cfg.Server.BaseURL, clientOpts...)
}
