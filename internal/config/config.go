package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-cvrewrite/internal/logger"
)

// DefaultBaseURL is where the rewrite server listens in local development.
const DefaultBaseURL = "http://localhost:5001"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CVREWRITE_"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Form     FormConfig     `yaml:"form"`
	Download DownloadConfig `yaml:"download"`
	Copy     CopyConfig     `yaml:"copy"`
	Log      logger.Config  `yaml:"log"`
}

type ServerConfig struct {
	BaseURL  string            `yaml:"base_url"`
	Endpoint string            `yaml:"endpoint"`
	Timeout  Duration          `yaml:"timeout"` // 0 leaves requests unbounded
	Token    string            `yaml:"token"`
	Headers  map[string]string `yaml:"headers"`
}

type FormConfig struct {
	Definition string `yaml:"definition"`
	OpenAPI    string `yaml:"openapi"`
	Values     string `yaml:"values"`
}

type DownloadConfig struct {
	Dir              string `yaml:"dir"`
	FilenameTemplate string `yaml:"filename_template"`
	CompanyField     string `yaml:"company_field"`
}

type CopyConfig struct {
	ResetDelay Duration `yaml:"reset_delay"`
}

// Duration decodes Go duration strings ("30s", "2m") from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	raw := strings.TrimSpace(value.Value)
	if raw == "" || raw == "0" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{BaseURL: DefaultBaseURL},
		Download: DownloadConfig{
			Dir:          ".",
			CompanyField: "company",
		},
		Copy: CopyConfig{ResetDelay: Duration(2 * time.Second)},
		Log:  logger.Config{Level: "info", Format: "text"},
	}
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing default file
// is not an error; a missing explicit file is.
func LoadEnvFile(path string, explicit bool) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load env file %s: %w", path, err)
	}
	return nil
}

// Load reads the YAML file at path (optional) over the defaults and applies
// CVREWRITE_* environment overrides.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}
	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("URL", &cfg.Server.BaseURL)
	str("ENDPOINT", &cfg.Server.Endpoint)
	str("TOKEN", &cfg.Server.Token)
	str("FORM", &cfg.Form.Definition)
	str("OPENAPI", &cfg.Form.OpenAPI)
	str("OUT_DIR", &cfg.Download.Dir)
	str("FILENAME_TEMPLATE", &cfg.Download.FilenameTemplate)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)

	if v, ok := lookup(EnvPrefix + "TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %sTIMEOUT: %w", EnvPrefix, err)
		}
		cfg.Server.Timeout = Duration(d)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = DefaultBaseURL
	}
	if c.Download.Dir == "" {
		c.Download.Dir = "."
	}
	if c.Download.CompanyField == "" {
		c.Download.CompanyField = "company"
	}
	if c.Copy.ResetDelay <= 0 {
		c.Copy.ResetDelay = Duration(2 * time.Second)
	}
}

// Validate reports configuration that cannot work.
func (c *Config) Validate() error {
	if c.Form.Definition != "" && c.Form.OpenAPI != "" {
		return errors.New("config: form.definition and form.openapi are mutually exclusive")
	}
	if c.Server.Timeout < 0 {
		return errors.New("config: server.timeout must not be negative")
	}
	return nil
}
