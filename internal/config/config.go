package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"github.com/rohmanhakim/conditions/pkg/fileutil"
	"gopkg.in/yaml.v3"
)

// WarningMode decides what an unhandled, unmuffled warning does.
type WarningMode string

const (
	// WarningDeferred collects warnings and prints a summary when the
	// top-level unit finishes.
	WarningDeferred WarningMode = "deferred"
	// WarningImmediate prints each warning as soon as it is signaled.
	WarningImmediate WarningMode = "immediate"
	// WarningEscalate turns the warning into an error.
	WarningEscalate WarningMode = "escalate"
)

func ParseWarningMode(s string) (WarningMode, error) {
	switch m := WarningMode(strings.ToLower(strings.TrimSpace(s))); m {
	case WarningDeferred, WarningImmediate, WarningEscalate:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown warning mode %q", ErrInvalidConfig, s)
	}
}

type Config struct {
	//===============
	// Defaults
	//===============
	// What an unhandled warning does: deferred, immediate or escalate
	warningMode WarningMode
	// Deferred warnings listed one by one up to this many; beyond it only a count is printed
	warningSummaryLimit int
	// Record the signaling Go frame on conditions that have no call site
	captureCallSites bool

	//===============
	// Output
	//===============
	// auto, always or never
	color string
	// Path of the logfmt trace file. Empty disables tracing
	traceFile string

	//===============
	// Driver
	//===============
	// Maximum number of top-level units running at once, each in its own context
	concurrency int
}

type configDTO struct {
	WarningMode         string `json:"warningMode,omitempty" toml:"warningMode" yaml:"warningMode,omitempty"`
	WarningSummaryLimit int64  `json:"warningSummaryLimit,omitempty" toml:"warningSummaryLimit" yaml:"warningSummaryLimit,omitempty"`
	CaptureCallSites    *bool  `json:"captureCallSites,omitempty" toml:"captureCallSites" yaml:"captureCallSites,omitempty"`
	Color               string `json:"color,omitempty" toml:"color" yaml:"color,omitempty"`
	TraceFile           string `json:"traceFile,omitempty" toml:"traceFile" yaml:"traceFile,omitempty"`
	Concurrency         int64  `json:"concurrency,omitempty" toml:"concurrency" yaml:"concurrency,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	// Start with default config
	builder := WithDefault()

	// Only override if a non-zero value is provided
	if dto.WarningMode != "" {
		mode, err := ParseWarningMode(dto.WarningMode)
		if err != nil {
			return Config{}, err
		}
		builder = builder.WithWarningMode(mode)
	}
	if dto.WarningSummaryLimit != 0 {
		limit, err := safecast.Conv[int](dto.WarningSummaryLimit)
		if err != nil {
			return Config{}, fmt.Errorf("%w: warningSummaryLimit: %s", ErrInvalidConfig, err.Error())
		}
		builder = builder.WithWarningSummaryLimit(limit)
	}
	// captureCallSites defaults to true, so only an explicit value counts
	if dto.CaptureCallSites != nil {
		builder = builder.WithCaptureCallSites(*dto.CaptureCallSites)
	}
	if dto.Color != "" {
		builder = builder.WithColor(dto.Color)
	}
	if dto.TraceFile != "" {
		builder = builder.WithTraceFile(dto.TraceFile)
	}
	if dto.Concurrency != 0 {
		concurrency, err := safecast.Conv[int](dto.Concurrency)
		if err != nil {
			return Config{}, fmt.Errorf("%w: concurrency: %s", ErrInvalidConfig, err.Error())
		}
		builder = builder.WithConcurrency(concurrency)
	}

	return builder.Build()
}

// WithConfigFile loads a config file. The format follows the extension:
// .json, .toml, .yaml or .yml.
func WithConfigFile(path string) (Config, error) {
	content, ferr := fileutil.ReadFile(path)
	if ferr != nil {
		var fileErr *fileutil.FileError
		if errors.As(ferr, &fileErr) && fileErr.Cause == fileutil.ErrCausePathError {
			return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, ferr.Error())
		}
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, ferr.Error())
	}

	cfgDTO := configDTO{}
	var err error
	switch ext := fileutil.GetFileExtension(path); ext {
	case "json":
		err = json.Unmarshal(content, &cfgDTO)
	case "toml":
		_, err = toml.NewDecoder(bytes.NewReader(content)).Decode(&cfgDTO)
	case "yaml", "yml":
		err = yaml.Unmarshal(content, &cfgDTO)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// WithDefault creates a new Config holding the default value of every field.
func WithDefault() *Config {
	defaultConfig := Config{
		warningMode:         WarningDeferred,
		warningSummaryLimit: 10,
		captureCallSites:    true,
		color:               "auto",
		traceFile:           "",
		concurrency:         4,
	}
	return &defaultConfig
}

func (c *Config) WithWarningMode(mode WarningMode) *Config {
	c.warningMode = mode
	return c
}

func (c *Config) WithWarningSummaryLimit(limit int) *Config {
	c.warningSummaryLimit = limit
	return c
}

func (c *Config) WithCaptureCallSites(capture bool) *Config {
	c.captureCallSites = capture
	return c
}

func (c *Config) WithColor(color string) *Config {
	c.color = strings.ToLower(color)
	return c
}

func (c *Config) WithTraceFile(path string) *Config {
	c.traceFile = path
	return c
}

func (c *Config) WithConcurrency(concurrency int) *Config {
	c.concurrency = concurrency
	return c
}

func (c *Config) Build() (Config, error) {
	if _, err := ParseWarningMode(string(c.warningMode)); err != nil {
		return Config{}, err
	}
	if c.warningSummaryLimit < 1 {
		return Config{}, fmt.Errorf("%w: warningSummaryLimit must be at least 1, got %d", ErrInvalidConfig, c.warningSummaryLimit)
	}
	switch c.color {
	case "auto", "always", "never":
	default:
		return Config{}, fmt.Errorf("%w: unknown color mode %q", ErrInvalidConfig, c.color)
	}
	if c.concurrency < 1 {
		return Config{}, fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalidConfig, c.concurrency)
	}
	return *c, nil
}

func (c Config) WarningMode() WarningMode {
	return c.warningMode
}

func (c Config) WarningSummaryLimit() int {
	return c.warningSummaryLimit
}

func (c Config) CaptureCallSites() bool {
	return c.captureCallSites
}

func (c Config) Color() string {
	return c.color
}

func (c Config) TraceFile() string {
	return c.traceFile
}

func (c Config) Concurrency() int {
	return c.concurrency
}
