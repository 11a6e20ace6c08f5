package human

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ToluGIT/archguard/pkg/remediation"
	"github.com/ToluGIT/archguard/pkg/types"
)

// Reporter implements the reporter.Reporter interface for human-readable output
type Reporter struct {
	suggester remediation.Suggester
}

// New creates a new human-readable reporter
func New() *Reporter {
	return &Reporter{}
}

// WithSuggester adds remediation steps under each finding
func (r *Reporter) WithSuggester(s remediation.Suggester) *Reporter {
	r.suggester = s
	return r
}

// Write writes the result to the given writer in human-readable format
func (r *Reporter) Write(ctx context.Context, result *types.AnalysisResult, writer io.Writer) error {
	report := result.Report
	if report == nil {
		return fmt.Errorf("analysis result %s has no report", result.JobID)
	}

	// Header
	fmt.Fprintf(writer, "\n%s\n", strings.Repeat("=", 80))
	fmt.Fprintf(writer, "ArchGuard Security Report\n")
	fmt.Fprintf(writer, "Job: %s (%s)\n", result.JobID, result.Status)
	fmt.Fprintf(writer, "%s\n\n", strings.Repeat("=", 80))

	// Summary
	fmt.Fprintf(writer, "SUMMARY\n")
	fmt.Fprintf(writer, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(writer, "%s\n", report.Summary)
	fmt.Fprintf(writer, "Total Findings: %d\n", report.TotalFindings)
	fmt.Fprintf(writer, "Risk Score:     %d/100\n\n", report.RiskScore)

	if report.TotalFindings == 0 {
		fmt.Fprintf(writer, "✅ No security findings!\n\n")
		return nil
	}

	fmt.Fprintf(writer, "Findings by Severity:\n")
	for _, severity := range types.Severities {
		if count := len(report.FindingsBySeverity[severity]); count > 0 {
			fmt.Fprintf(writer, "  %-10s %d\n", string(severity)+":", count)
		}
	}
	fmt.Fprintln(writer)

	// Findings detail
	fmt.Fprintf(writer, "FINDINGS\n")
	fmt.Fprintf(writer, "%s\n", strings.Repeat("-", 40))

	for _, severity := range types.Severities {
		findings := report.FindingsBySeverity[severity]
		if len(findings) == 0 {
			continue
		}

		fmt.Fprintf(writer, "\n[%s]\n", severity)
		for i, f := range findings {
			if err := r.writeFinding(ctx, writer, f, i+1); err != nil {
				return err
			}
		}
	}
	fmt.Fprintln(writer)

	if len(report.Recommendations) > 0 {
		fmt.Fprintf(writer, "RECOMMENDATIONS\n")
		fmt.Fprintf(writer, "%s\n", strings.Repeat("-", 40))
		for _, rec := range report.Recommendations {
			fmt.Fprintf(writer, "  - %s\n", rec)
		}
		fmt.Fprintln(writer)
	}

	// Footer
	fmt.Fprintf(writer, "%s\n", strings.Repeat("=", 80))
	fmt.Fprintf(writer, "Run 'archguard analyze --help' for more options\n\n")

	return nil
}

// writeFinding writes a single finding in human-readable format
func (r *Reporter) writeFinding(ctx context.Context, writer io.Writer, f types.Finding, index int) error {
	fmt.Fprintf(writer, "\n%d. %s\n", index, f.Description)
	fmt.Fprintf(writer, "   Component: %s\n", f.AffectedComponent)
	fmt.Fprintf(writer, "   Category:  %s\n", f.Category)
	if f.RuleID != "" {
		fmt.Fprintf(writer, "   Rule:      %s\n", f.RuleID)
	}
	if f.Recommendation != "" {
		fmt.Fprintf(writer, "   Fix:       %s\n", f.Recommendation)
	}

	if r.suggester == nil {
		return nil
	}
	suggestion, err := r.suggester.Suggest(ctx, f)
	if err != nil {
		return fmt.Errorf("failed to suggest remediation for %s: %w", f.AffectedComponent, err)
	}
	if suggestion == nil || len(suggestion.Steps) == 0 {
		return nil
	}
	fmt.Fprintf(writer, "   Steps:\n")
	for _, step := range suggestion.Steps {
		fmt.Fprintf(writer, "     %s\n", step)
	}
	if suggestion.Fix != nil {
		fmt.Fprintf(writer, "   Change:    %s -> %s\n", suggestion.Fix.OldContent, suggestion.Fix.NewContent)
	}
	return nil
}

// Format returns the format this reporter outputs
func (r *Reporter) Format() string {
	return "human"
}
