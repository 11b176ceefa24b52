// Package config loads seapool settings with Viper.
//
// Values come, in increasing priority, from built-in defaults, a config file
// (--config, or .seapool.yaml/.toml/.json in the search directory),
// SEAPOOL_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application name.
	AppName = "seapool"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = ".seapool"
	// EnvPrefix prefixes environment variables, e.g. SEAPOOL_MAX_DEPTH.
	EnvPrefix = "SEAPOOL"
)

type Config struct {
	Inputs         []string `mapstructure:"inputs" yaml:"inputs"`
	Includes       []string `mapstructure:"includes" yaml:"includes"`
	SystemIncludes []string `mapstructure:"system_includes" yaml:"system_includes"`
	Excludes       []string `mapstructure:"excludes" yaml:"excludes"`
	Output         string   `mapstructure:"output" yaml:"output"`
	MaxDepth       int      `mapstructure:"max_depth" yaml:"max_depth"`
	Verbose        bool     `mapstructure:"verbose" yaml:"verbose"`
}

func DefaultConfig() *Config {
	return &Config{
		Inputs:         []string{},
		Includes:       []string{},
		SystemIncludes: []string{},
		Excludes:       []string{},
	}
}

// FlagNames maps config keys to the command-line flags that override them.
var FlagNames = map[string]string{
	"includes":        "include",
	"system_includes": "system-include",
	"excludes":        "exclude",
	"output":          "output",
	"max_depth":       "max-depth",
	"verbose":         "verbose",
}

type LoadOptions struct {
	// ConfigFilePath is used exclusively when set; it must exist.
	ConfigFilePath string
	// SearchDir is where .seapool.* is looked up. Defaults to ".".
	SearchDir string
	// Flags, when set, override file and environment values for every flag
	// named in FlagNames that the user changed.
	Flags *pflag.FlagSet
}

// Load returns the effective configuration and the config file used, if any.
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("inputs", defaults.Inputs)
	v.SetDefault("includes", defaults.Includes)
	v.SetDefault("system_includes", defaults.SystemIncludes)
	v.SetDefault("excludes", defaults.Excludes)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("max_depth", defaults.MaxDepth)
	v.SetDefault("verbose", defaults.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFilePath != "" {
		v.SetConfigFile(opts.ConfigFilePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("load config %s: %w", opts.ConfigFilePath, err)
		}
	} else {
		dir := opts.SearchDir
		if dir == "" {
			dir = "."
		}
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, "", fmt.Errorf("load config: %w", err)
			}
			// no config file, defaults apply
		}
	}

	if opts.Flags != nil {
		for key, name := range FlagNames {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, "", fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, v.ConfigFileUsed(), nil
}

func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return errors.New("no input files")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

// YAML renders the configuration as a YAML document.
func (c *Config) YAML() (string, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
