// Package main provides the formstudio binary: design form schemas in the
// terminal, fill them in, render them to HTML and serve them over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "formstudio"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries state shared by every subcommand.
type app struct {
	logLevel string
	logger   *slog.Logger
}

func rootCmd() *cobra.Command {
	a := &app{logger: slog.Default()}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Build, fill and serve dynamic forms",
		Long: `formstudio edits form schemas stored as JSON or YAML documents.

Schemas can be designed and filled in interactively in the terminal,
rendered to HTML, or served over HTTP with submissions logged.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = newLogger(cmd.ErrOrStderr(), a.logLevel)
			slog.SetDefault(a.logger)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newVersionCmd(),
		newTypesCmd(),
		newSchemaCmd(a),
		newFillCmd(a),
		newDesignCmd(a),
		newRenderCmd(a),
		newServeCmd(a),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	}
}

func newLogger(w io.Writer, raw string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(raw) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
