// Package main provides the humanizer CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/jonathan/humanizer/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	apiKeyFlag   string
	logLevelFlag string
	verboseFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "humanizer",
	Short: "Rewrite text so it reads as human-written",
	Long: "humanizer rewrites text, or writes new content about a topic, with a generative model and " +
		"rates the result on sentence variety, contraction usage and personal voice.",
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Model API key (overrides GOOGLE_API_KEY / OPENAI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Print a score breakdown to stderr")
}

func initLogging(_ *cobra.Command, _ []string) error {
	opts := logger.FromEnv()
	if logLevelFlag != "" {
		opts.Level = logLevelFlag
	}
	logger.Init(opts)
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
