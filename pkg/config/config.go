// Package config loads pathfind settings from a YAML file with environment
// overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-pathfinder/pkg/algorithms"
	"github.com/dd0wney/cluso-pathfinder/pkg/metrics"
	"github.com/dd0wney/cluso-pathfinder/pkg/validation"
)

// Environment variables that override file settings.
const (
	EnvLogLevel = "LOG_LEVEL"
	EnvTimeout  = "PATHFIND_TIMEOUT"
	EnvStrict   = "PATHFIND_STRICT"
)

// Default configuration values
const (
	DefaultLogLevel = "info"
	DefaultTimeout  = 2 * time.Second
)

var namespacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config is the top-level configuration document.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Search  SearchConfig  `yaml:"search"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error off"`
}

// SearchConfig controls how searches run.
type SearchConfig struct {
	// StrictOrdering re-sorts improved frontier nodes.
	StrictOrdering bool `yaml:"strict_ordering"`

	// MaxExpansions caps closed nodes per search (0: unlimited)
	MaxExpansions int `yaml:"max_expansions" validate:"gte=0"`

	// Timeout abandons a search that runs longer (0: no timeout)
	Timeout time.Duration `yaml:"timeout"`
}

// MetricsConfig controls the Prometheus registry.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: DefaultLogLevel},
		Search:  SearchConfig{Timeout: DefaultTimeout},
		Metrics: MetricsConfig{Enabled: true, Namespace: metrics.DefaultNamespace},
	}
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// applyEnv overlays environment variables read through lookup.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		c.Search.Timeout = d
	}
	if v, ok := lookup(EnvStrict); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvStrict, v, err)
		}
		c.Search.StrictOrdering = b
	}
	return nil
}

// Validate checks struct tags first, then the cross-field rules.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	cv := validation.NewConfigValidator("config").
		NonNegativeDuration("search.timeout", c.Search.Timeout).
		Custom("metrics.namespace", func() error {
			if !c.Metrics.Enabled {
				return nil
			}
			if !namespacePattern.MatchString(c.Metrics.Namespace) {
				return fmt.Errorf("%q is not a valid metric namespace", c.Metrics.Namespace)
			}
			return nil
		})
	return cv.Validate()
}

// SearchOptions converts the search section to engine options.
func (c *Config) SearchOptions() []algorithms.Option {
	var opts []algorithms.Option
	if c.Search.StrictOrdering {
		opts = append(opts, algorithms.WithStrictOrdering())
	}
	if c.Search.MaxExpansions > 0 {
		opts = append(opts, algorithms.WithMaxExpansions(c.Search.MaxExpansions))
	}
	return opts
}
