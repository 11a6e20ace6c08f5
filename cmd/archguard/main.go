package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ToluGIT/archguard/pkg/config"
	"github.com/ToluGIT/archguard/pkg/logger"
)

var (
	version = "0.1.0"
	commit  = "none"
	date    = "unknown"
)

// errFindingsAboveThreshold signals a --fail-on hit; the report has already
// been written when it is returned.
var errFindingsAboveThreshold = errors.New("findings at or above the fail-on severity")

func printBanner(w io.Writer) {
	fmt.Fprintf(w, "ArchGuard %s - architecture security analyzer\n\n", version)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFindingsAboveThreshold) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// app carries the settings resolved before any subcommand runs
type app struct {
	configFile string
	verbose    bool
	logLevel   string

	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "archguard",
		Short: "Architecture security analyzer",
		Long: `ArchGuard analyzes a declarative description of a system's architecture
(services, firewall rules, data flows, databases, IAM policies, storage and
code snippets) written in JSON, YAML, Markdown or HCL, and reports security
findings graded by severity with an overall risk score.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (default is $HOME/.archguard.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newAnalyzeCmd(a),
		newParseCmd(a),
		newRulesCmd(),
	)

	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	levelName := cfg.LogLevel
	if a.logLevel != "" {
		levelName = a.logLevel
	}
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return err
	}
	if a.verbose {
		level = logger.DebugLevel
	}

	logger.SetLevel(level)
	a.log = logger.Default()
	return nil
}

// outputWriter returns stdout or the named file; close must always be called
func outputWriter(cmd *cobra.Command, path string) (w io.Writer, close func() error, err error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, file.Close, nil
}

func withTimeout(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.AnalysisTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.AnalysisTimeout)
}
