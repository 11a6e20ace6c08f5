package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ToluGIT/archguard/pkg/analyzer"
	"github.com/ToluGIT/archguard/pkg/remediation"
	"github.com/ToluGIT/archguard/pkg/reporter"
	"github.com/ToluGIT/archguard/pkg/reporter/human"
	jsonreporter "github.com/ToluGIT/archguard/pkg/reporter/json"
	junitreporter "github.com/ToluGIT/archguard/pkg/reporter/junit"
	sarifreporter "github.com/ToluGIT/archguard/pkg/reporter/sarif"
	"github.com/ToluGIT/archguard/pkg/types"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		format  string
		output  string
		failOn  string
		compact bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze an architecture description for security issues",
		Long: `Analyze an architecture description and report security findings.

The input format is chosen by file extension: .json, .yaml/.yml, .md and .hcl
are parsed; any other file is accepted as raw content and yields no findings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if !cmd.Flags().Changed("format") {
				format = a.cfg.Format
			}
			if cmd.Flags().Changed("fail-on") {
				a.cfg.FailOn = failOn
			}
			if cmd.Flags().Changed("timeout") {
				a.cfg.AnalysisTimeout = timeout
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			rep, err := newReporter(format, path, compact)
			if err != nil {
				return err
			}
			if format == "human" && output == "" {
				printBanner(cmd.ErrOrStderr())
			}

			ctx, cancel := withTimeout(cmd.Context(), a.cfg)
			defer cancel()

			az, err := analyzer.NewDefault(ctx,
				analyzer.WithLogger(a.log.WithPrefix("analyzer")),
				analyzer.WithMaxFileSize(a.cfg.MaxFileSize),
			)
			if err != nil {
				return err
			}

			result, err := az.AnalyzeFile(ctx, path)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			writer, closeOutput, err := outputWriter(cmd, output)
			if err != nil {
				return err
			}
			defer closeOutput()

			if err := rep.Write(ctx, result, writer); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			if err := closeOutput(); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}

			if threshold, ok := a.cfg.FailOnSeverity(); ok {
				if n := countAtLeast(result.Findings, threshold); n > 0 {
					a.log.Error("%d finding(s) at or above %s", n, threshold)
					return errFindingsAboveThreshold
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "human", "output format (human, json, sarif, junit)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "exit with non-zero code when a finding at or above this severity is found")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "analysis timeout (default from config, 5m)")
	cmd.Flags().BoolVar(&compact, "compact", false, "compact JSON output")

	return cmd
}

func newReporter(format, artifact string, compact bool) (reporter.Reporter, error) {
	switch format {
	case "human":
		return human.New().WithSuggester(remediation.NewBasicSuggester()), nil
	case "json":
		if compact {
			return jsonreporter.NewCompact(), nil
		}
		return jsonreporter.New(), nil
	case "sarif":
		return sarifreporter.New().WithArtifact(artifact).WithSuggester(remediation.NewBasicSuggester()), nil
	case "junit":
		return junitreporter.New(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func countAtLeast(findings []types.Finding, threshold types.Severity) int {
	n := 0
	for _, f := range findings {
		if f.Severity.Normalize().AtLeast(threshold) {
			n++
		}
	}
	return n
}
