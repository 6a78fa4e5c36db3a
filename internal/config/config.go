// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-shamir.
//
// go-shamir is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-shamir/pkg/field"
	"github.com/jeremyhahn/go-shamir/pkg/logging"
	"github.com/jeremyhahn/go-shamir/pkg/shamir"
)

// EnvPrefix is prepended to every environment override, e.g. SHAMIR_FIELD
// or SHAMIR_LOGGING_LEVEL.
const EnvPrefix = "SHAMIR"

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config represents the complete CLI configuration
type Config struct {
	Field   string        `mapstructure:"field" yaml:"field" json:"field"`
	Split   SplitConfig   `mapstructure:"split" yaml:"split" json:"split"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output" json:"output"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// SplitConfig holds split defaults. Zero means the value must come from
// the command line.
type SplitConfig struct {
	NumShares int `mapstructure:"num_shares" yaml:"num_shares" json:"num_shares"`
	Threshold int `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// MetricsConfig controls the Prometheus textfile export
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Textfile string `mapstructure:"textfile" yaml:"textfile" json:"textfile"`
}

// flagKeys maps command line flag names to configuration keys
var flagKeys = map[string]string{
	"field":      "field",
	"num-shares": "split.num_shares",
	"threshold":  "split.threshold",
	"output":     "output.format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("field", field.DefaultName)
	v.SetDefault("split.num_shares", 0)
	v.SetDefault("split.threshold", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", logging.FormatText)
	v.SetDefault("output.format", OutputText)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.textfile", "")
}

// Default returns the configuration with no file, environment or flags
// applied.
func Default() *Config {
	cfg, err := Load("", nil)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load builds the configuration from defaults, the optional YAML file at
// path, SHAMIR_* environment variables and the flags in flags that were
// explicitly set, in increasing order of precedence.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil || !flag.Changed {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := field.Parse(c.Field); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.Split.NumShares < 0 || c.Split.Threshold < 0 {
		return fmt.Errorf("%w: num_shares and threshold must not be negative", ErrInvalidConfig)
	}
	if c.Split.NumShares > 0 && c.Split.Threshold > 0 {
		if err := shamir.ValidateThreshold(c.Split.NumShares, c.Split.Threshold); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: invalid log format: %s (must be text or json)", ErrInvalidConfig, c.Logging.Format)
	}

	switch strings.ToLower(c.Output.Format) {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("%w: invalid output format: %s (must be text, json, or yaml)", ErrInvalidConfig, c.Output.Format)
	}

	return nil
}

// GetField resolves the configured field
func (c *Config) GetField() (*field.Field, error) {
	return field.Parse(c.Field)
}

// Marshal renders the configuration as YAML
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
