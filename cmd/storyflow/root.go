package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	storyflow "github.com/storyflow/storyflow"
	"github.com/storyflow/storyflow/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "storyflow",
	Short: "Storyflow is a bot-flow editor core and story exporter",
	Long: `Storyflow maintains a conversational-bot flow graph (start, intent,
action, end nodes) and exports it as a bot-training JSON document.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("seed", "", "YAML seed file for the editing session (default: built-in demo flow)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
}

// newWorkspace builds a Workspace from the persistent flags.
func newWorkspace(cmd *cobra.Command) (*storyflow.Workspace, error) {
	opts := []storyflow.Option{storyflow.WithLogger(newLogger(cmd))}
	if seed, _ := cmd.Flags().GetString("seed"); seed != "" {
		opts = append(opts, storyflow.WithSeedFile(seed))
	}
	return storyflow.New(opts...)
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	levelStr, _ := cmd.Flags().GetString("log-level")
	level := slog.LevelInfo
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return logging.New(level)
}
