package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/native/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vnative.yaml"

	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultNamespace     = "vnative"
	DefaultTracer        = "vnative"
	DefaultInspectorAddr = "localhost:7070"
	DefaultHistory       = 64
	DefaultTermWidth     = 80
)

// Config is the parsed vnative.yaml.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Tracing    TracingConfig    `yaml:"tracing"`
	Reconciler ReconcilerConfig `yaml:"reconciler"`
	Inspector  InspectorConfig  `yaml:"inspector"`
	Term       TermConfig       `yaml:"term"`

	configPath string
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// MetricsConfig names the prometheus collectors.
type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem,omitempty"`
}

// TracingConfig names the otel tracer.
type TracingConfig struct {
	Tracer string `yaml:"tracer"`
}

// ReconcilerConfig tunes the update cycle.
type ReconcilerConfig struct {
	// RebuildOnDrift rebuilds the native tree when a batch finds the tree
	// out of step. Nil means true.
	RebuildOnDrift *bool `yaml:"rebuild_on_drift,omitempty"`
}

// InspectorConfig configures the development inspector.
type InspectorConfig struct {
	Addr string `yaml:"addr"`

	// History is the number of batches replayed to a new feed client.
	History int `yaml:"history"`
}

// TermConfig configures the terminal toolkit.
type TermConfig struct {
	// Width overrides the theme's render width when set.
	Width int `yaml:"width,omitempty"`

	// Theme is a TOML theme file, relative to the config file.
	Theme string `yaml:"theme,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads vnative.yaml from dir. A missing file is not an error.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("V061").
				WithDetail("No config file at " + path).
				Wrap(err)
		}
		return nil, errors.New("V040").Wrap(err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		e := errors.New("V040").Wrap(err).
			WithSuggestion("Check the indentation and that every key maps to a scalar or mapping")
		if line := yamlErrorLine(err); line > 0 {
			e.WithLocation(path, line, 0)
		}
		return nil, e
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var lineRe = regexp.MustCompile(`line (\d+)`)

// yamlErrorLine pulls the first line number out of a yaml.v3 error.
func yamlErrorLine(err error) int {
	m := lineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("V040").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("V040").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.Tracer == "" {
		c.Tracing.Tracer = DefaultTracer
	}
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = DefaultInspectorAddr
	}
	if c.Inspector.History == 0 {
		c.Inspector.History = DefaultHistory
	}
}

// Validate checks every value is usable.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New("V041").Wrap(err).
			WithSuggestion("log.level must be debug, info, warn or error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("V041").
			Wrap(fmt.Errorf("log.format %q", c.Log.Format)).
			WithSuggestion("log.format must be text or json")
	}
	if c.Inspector.History < 0 {
		return errors.New("V041").Wrap(fmt.Errorf("inspector.history %d is negative", c.Inspector.History))
	}
	if c.Term.Width != 0 && c.Term.Width < 4 {
		return errors.New("V041").Wrap(fmt.Errorf("term.width %d is too small", c.Term.Width))
	}
	return nil
}

// RebuildOnDrift reports the reconciler setting, defaulting to true.
func (c *Config) RebuildOnDrift() bool {
	return c.Reconciler.RebuildOnDrift == nil || *c.Reconciler.RebuildOnDrift
}

// ThemePath returns the theme file resolved against the config directory,
// or "" for the built-in theme.
func (c *Config) ThemePath() string {
	if c.Term.Theme == "" || filepath.IsAbs(c.Term.Theme) {
		return c.Term.Theme
	}
	return filepath.Join(c.Dir(), c.Term.Theme)
}

// Logger builds the slog logger the config describes.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q: %w", s, err)
	}
	return level, nil
}
