package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/watchlist/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example config file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate a config file",
	Long:  "Checks TOML syntax, field values and environment variable substitution.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		path, err := configFile()
		if errors.Is(err, config.ErrNotFound) {
			fmt.Fprintf(w, "No config file; using defaults. Create one at %s\n", config.DefaultPath())
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(w, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configPathCmd)
}

// configFile is the --config flag or the discovered file.
func configFile() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.Discover()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	if err := config.WriteDefault(path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s already exists", path)
		}
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\nSet TMDB_API_KEY or edit api_key in that file.\n", path)
	return nil
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		found, err := configFile()
		if err != nil {
			return err
		}
		path = found
	}

	fmt.Fprintf(w, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(w, configErr)
			return errors.New("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(w, cfg)
	if err := cfg.RequireAPIKey(); err != nil {
		fmt.Fprintf(w, "\nWarning: %v\n", err)
	}
	fmt.Fprintln(w, "\nConfiguration valid!")
	return nil
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}
	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	key := "(not set)"
	if cfg.TMDB.APIKey != "" {
		key = "(set)"
	}
	logDest := "stderr"
	if cfg.Log.File != "" {
		logDest = cfg.Log.File
	}

	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  TMDB:       %s lang=%s timeout=%s key %s\n", cfg.TMDB.BaseURL, cfg.TMDB.Language, cfg.TMDB.Timeout, key)
	fmt.Fprintf(w, "  Database:   %s\n", cfg.Database.Path)
	fmt.Fprintf(w, "  Log:        %s (%s)\n", logDest, cfg.Log.Level)
	fmt.Fprintf(w, "  Refresh:    every %s, search cache %s\n", cfg.Refresh.Interval, cfg.Refresh.SearchCacheTTL)
}
