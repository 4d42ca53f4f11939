// Package config provides configuration management for vellum using Viper
// for flexible loading from files, environment variables, and command-line
// flags.
//
// The configuration system supports YAML files and environment variable
// overrides with a VELLUM_ prefix. It manages the preview server, the
// runtime (module search paths, builtin aliases), hydration inputs and
// file watching.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Runtime   RuntimeConfig   `yaml:"runtime"`
	Hydration HydrationConfig `yaml:"hydration"`
	Watch     WatchConfig     `yaml:"watch"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type RuntimeConfig struct {
	ID          string            `yaml:"id"`
	SearchPaths []string          `yaml:"search_paths"`
	Builtins    map[string]string `yaml:"builtins"`
}

type HydrationConfig struct {
	PayloadFile string `yaml:"payload_file"`
	MarkupFile  string `yaml:"markup_file"`
}

type WatchConfig struct {
	Paths           []string `yaml:"paths"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
	DebounceMillis  int      `yaml:"debounce_millis"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from the configured viper sources and applies
// defaults.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Viper slice handling: values set only through Set/env do not always
	// survive Unmarshal.
	if viper.IsSet("watch.paths") && len(config.Watch.Paths) == 0 {
		config.Watch.Paths = viper.GetStringSlice("watch.paths")
	}
	if viper.IsSet("server.allowed_origins") && len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = viper.GetStringSlice("server.allowed_origins")
	}
	if viper.IsSet("runtime.search_paths") && len(config.Runtime.SearchPaths) == 0 {
		config.Runtime.SearchPaths = viper.GetStringSlice("runtime.search_paths")
	}

	applyDefaults(&config)

	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8120
	}
	if config.Runtime.ID == "" {
		config.Runtime.ID = "vlm"
	}
	if len(config.Watch.Paths) == 0 {
		config.Watch.Paths = []string{"."}
	}
	if config.Watch.DebounceMillis == 0 {
		config.Watch.DebounceMillis = 100
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
}

// Init wires viper's sources: an optional explicit config file, a
// .vellum.yml in the working directory, and VELLUM_-prefixed environment
// variables.
func Init(configFile string) error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".vellum")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("VELLUM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config files are fine; everything has defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configFile != "" {
			return err
		}
	}
	return nil
}
