// Package cli provides the command-line interface for feedlift.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/feedlift/feedlift/internal/config"
	"github.com/feedlift/feedlift/internal/engine"
	"github.com/feedlift/feedlift/internal/llm"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose    bool
	serverURL  string
	configFile string

	// Global config, loaded before every command
	cfg config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "feedlift",
	Short: "AI-powered product feed optimization",
	Long: `Feedlift rewrites e-commerce product data for AI-driven search:
optimized titles and descriptions, semantic tags, FAQ content, JSON-LD
structured data, and shadow pages, plus Google Merchant and social
commerce feed exports.

Commands run against a local LLM configuration by default. Pass --server
to execute against a running feedlift server instead.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.LoadWithFile(configFile)
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
		slog.SetDefault(logger)
		return nil
	},
}

// newLocalEngine builds the LLM client and optimization engine from the
// loaded configuration. Used by commands running without --server.
func newLocalEngine(ctx context.Context) (*engine.Engine, *llm.Client, error) {
	completer, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init LLM client: %w", err)
	}
	return engine.New(completer, engine.WithMaxTokens(cfg.MaxTokens)), completer, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "feedlift server URL (run remotely instead of locally)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to YAML config file")

	// Add subcommands
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(testKeyCmd)
}
