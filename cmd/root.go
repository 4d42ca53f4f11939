// Package cmd provides the vellum command-line interface.
//
// Configuration sources, highest priority first:
//  1. Command-line flags (--config, --port, ...)
//  2. VELLUM_CONFIG_FILE environment variable
//  3. Individual environment variables (VELLUM_SERVER_PORT, ...)
//  4. Configuration file (.vellum.yml in the working directory)
package cmd

import (
	"fmt"
	"os"

	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vellum-ui/vellum/internal/config"
	"github.com/vellum-ui/vellum/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "vellum",
	Short: "A server-side component runtime with module resolution and DOM reconciliation",
	Long: `Vellum hosts UI components on the server: modules are defined and
resolved with package-versioned paths, components render to virtual
trees, and a reconciliation engine morphs live HTML in place.

Quick Start:
  vellum render <type>            Render a registered component to HTML
  vellum serve                    Start the preview server
  vellum list                     List component types and modules
  vellum resolve <target>         Explain a module resolution`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Accept underscore spellings for flags (--log_level == --log-level).
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default .vellum.yml, or VELLUM_CONFIG_FILE)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	file := cfgFile
	if file == "" {
		file = os.Getenv("VELLUM_CONFIG_FILE")
	}
	if err := config.Init(file); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	return cfg, logger, nil
}
