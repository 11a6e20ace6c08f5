package reporter

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/ToluGIT/archguard/pkg/types"
)

// MaxRiskScore caps the weighted sum of all findings
const MaxRiskScore = 100

// Summary lines
const (
	summaryCritical = "Critical security issues found (%d critical, %d high severity)"
	summaryHigh     = "High severity security issues found (%d issues)"
	summaryClean    = "No critical security issues detected"
)

// Reporter renders an analysis result in one output format
type Reporter interface {
	// Write writes the result to the given writer
	Write(ctx context.Context, result *types.AnalysisResult, writer io.Writer) error

	// Format returns the format this reporter outputs
	Format() string
}

// Generate merges the findings of every agent into one report. Findings with
// an unrecognized severity are weighted and bucketed as LOW.
func Generate(findingsPerAgent [][]types.Finding) *types.Report {
	report := &types.Report{
		FindingsBySeverity: make(map[types.Severity][]types.Finding, len(types.Severities)),
		Recommendations:    []string{},
	}
	for _, sev := range types.Severities {
		report.FindingsBySeverity[sev] = []types.Finding{}
	}

	seen := make(map[string]bool)
	score := 0
	for _, findings := range findingsPerAgent {
		for _, f := range findings {
			sev := f.Severity.Normalize()
			report.FindingsBySeverity[sev] = append(report.FindingsBySeverity[sev], f)
			report.TotalFindings++
			score += sev.Weight()

			if f.Recommendation != "" && !seen[f.Recommendation] {
				seen[f.Recommendation] = true
				report.Recommendations = append(report.Recommendations, f.Recommendation)
			}
		}
	}
	sort.Strings(report.Recommendations)

	if score > MaxRiskScore {
		score = MaxRiskScore
	}
	report.RiskScore = score
	report.Summary = summarize(report)

	return report
}

func summarize(report *types.Report) string {
	critical := len(report.FindingsBySeverity[types.SeverityCritical])
	high := len(report.FindingsBySeverity[types.SeverityHigh])

	switch {
	case critical > 0:
		return fmt.Sprintf(summaryCritical, critical, high)
	case high > 0:
		return fmt.Sprintf(summaryHigh, high)
	default:
		return summaryClean
	}
}
