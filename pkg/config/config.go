// Package config loads the uptui monitor list from a YAML or TOML file.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/kylerisse/uptui/pkg/monitor"
)

const (
	// DefaultPath is the config file read when none is given.
	DefaultPath = "config.yaml"

	// DefaultRefresh is the refresh interval used when the file sets none.
	DefaultRefresh = 30 * time.Second
)

// ErrNotMapping is returned when the document root is not a mapping.
var ErrNotMapping = errors.New("config root is not a mapping")

// Config is the content of a config file.
type Config struct {
	// Refresh is the interval between probe cycles. Zero means DefaultRefresh.
	Refresh Duration `json:"refresh,omitempty" toml:"refresh"`

	// Concurrency caps the number of probes in flight. Zero means unlimited.
	Concurrency int `json:"concurrency,omitempty" toml:"concurrency"`

	// Defaults are merged into every monitor for fields the monitor leaves
	// empty. The name is never merged.
	Defaults monitor.Definition `json:"defaults,omitempty" toml:"defaults"`

	Monitors []monitor.Definition `json:"monitors,omitempty" toml:"monitors"`
}

// RefreshInterval returns the configured refresh interval or DefaultRefresh.
func (c *Config) RefreshInterval() time.Duration {
	if c.Refresh.Duration <= 0 {
		return DefaultRefresh
	}
	return c.Refresh.Duration
}

// Specs parses the monitor definitions, preserving order.
func (c *Config) Specs() []monitor.Spec {
	return monitor.ParseAll(c.Monitors)
}

// Load reads the config file at path. Files ending in .toml are decoded as
// TOML; everything else as YAML (which includes JSON). Defaults are merged
// into the monitors before Load returns.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}

	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}

	return cfg, nil
}

// Format is a config file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

func formatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes a config document in the given format.
func Parse(data []byte, format Format) (*Config, error) {
	cfg := &Config{}

	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, errors.Wrap(err, "toml")
		}
	default:
		if err := decodeYAML(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	doc, err := yaml.YAMLToJSON(data)
	if err != nil {
		return errors.Wrap(err, "yaml")
	}

	doc = bytes.TrimSpace(doc)
	if len(doc) == 0 || bytes.Equal(doc, []byte("null")) {
		return nil
	}
	if doc[0] != '{' {
		return ErrNotMapping
	}

	if err := json.Unmarshal(doc, cfg); err != nil {
		return errors.Wrap(err, "yaml")
	}
	return nil
}

func (c *Config) validate() error {
	if c.Refresh.Duration < 0 {
		return errors.Errorf("refresh must not be negative, got %v", c.Refresh.Duration)
	}
	if c.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	return nil
}

func (c *Config) applyDefaults() error {
	defaults := c.Defaults
	defaults.Name = ""

	for i := range c.Monitors {
		if err := mergo.Merge(&c.Monitors[i], defaults); err != nil {
			return errors.Wrapf(err, "failed to merge defaults into monitor %d", i)
		}
	}
	return nil
}

// LoadOrEmpty loads the config at path. It never fails: when the file is
// missing, unreadable, unparsable or not a mapping it returns an empty
// Config together with a one-line diagnostic for the user. The diagnostic
// is empty when the file loaded cleanly.
func LoadOrEmpty(path string) (*Config, string) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, ""
	}

	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, fmt.Sprintf("config file %s not found; no monitors configured", path)
	}
	return &Config{}, err.Error()
}

// Duration is a time.Duration that decodes from a Go duration string
// ("30s") or a number of seconds.
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return d.set(v)
}

// UnmarshalTOML implements toml.Unmarshaler.
func (d *Duration) UnmarshalTOML(v any) error {
	return d.set(v)
}

// MarshalJSON encodes the duration as a Go duration string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) set(v any) error {
	switch value := v.(type) {
	case nil:
		d.Duration = 0
	case float64:
		d.Duration = time.Duration(value * float64(time.Second))
	case int64:
		d.Duration = time.Duration(value) * time.Second
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrapf(err, "invalid duration %q", value)
		}
		d.Duration = parsed
	default:
		return errors.Errorf("invalid duration %v", v)
	}
	return nil
}
