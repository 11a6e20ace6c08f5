package reporter

import (
	"reflect"
	"testing"

	"github.com/ToluGIT/archguard/pkg/types"
)

func finding(sev types.Severity, rec string) types.Finding {
	return types.Finding{Severity: sev, Category: "Test", Description: "d", Recommendation: rec, AffectedComponent: "c"}
}

func repeat(f types.Finding, n int) []types.Finding {
	out := make([]types.Finding, n)
	for i := range out {
		out[i] = f
	}
	return out
}

func TestGenerate_Empty(t *testing.T) {
	for _, in := range [][][]types.Finding{nil, {}, {nil, {}, nil, {}}} {
		report := Generate(in)

		if report.TotalFindings != 0 || report.RiskScore != 0 {
			t.Errorf("Expected empty report, got %+v", report)
		}
		if report.Summary != "No critical security issues detected" {
			t.Errorf("Summary = %q", report.Summary)
		}
		if len(report.FindingsBySeverity) != 4 {
			t.Errorf("Expected all four severity buckets, got %v", report.FindingsBySeverity)
		}
		for _, sev := range types.Severities {
			if bucket, ok := report.FindingsBySeverity[sev]; !ok || bucket == nil {
				t.Errorf("Bucket %s missing or nil", sev)
			}
		}
		if report.Recommendations == nil || len(report.Recommendations) != 0 {
			t.Errorf("Recommendations = %#v, want empty", report.Recommendations)
		}
	}
}

func TestGenerate_RiskScore(t *testing.T) {
	tests := []struct {
		name     string
		findings [][]types.Finding
		want     int
	}{
		{
			name:     "one of each",
			findings: [][]types.Finding{{finding(types.SeverityCritical, "a"), finding(types.SeverityHigh, "b")}, {finding(types.SeverityMedium, "c"), finding(types.SeverityLow, "d")}},
			want:     22,
		},
		{
			name:     "exactly at cap",
			findings: [][]types.Finding{repeat(finding(types.SeverityCritical, "a"), 10)},
			want:     100,
		},
		{
			name:     "clamped",
			findings: [][]types.Finding{repeat(finding(types.SeverityCritical, "a"), 11)},
			want:     100,
		},
		{
			name:     "unknown severity weighs as low",
			findings: [][]types.Finding{{finding("INFO", "a"), finding("", "b")}},
			want:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.findings).RiskScore; got != tt.want {
				t.Errorf("RiskScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGenerate_Monotonic(t *testing.T) {
	var findings []types.Finding
	prev := 0
	for i := 0; i < 20; i++ {
		findings = append(findings, finding(types.Severities[i%4], "r"))
		score := Generate([][]types.Finding{findings}).RiskScore
		if score < prev {
			t.Fatalf("score decreased from %d to %d after adding a finding", prev, score)
		}
		if score > MaxRiskScore {
			t.Fatalf("score %d exceeds cap", score)
		}
		prev = score
	}
}

func TestGenerate_Partition(t *testing.T) {
	in := [][]types.Finding{
		{finding(types.SeverityHigh, "a"), finding(types.SeverityLow, "b")},
		{finding("bogus", "c")},
		{finding(types.SeverityCritical, "d"), finding(types.SeverityHigh, "e")},
	}
	report := Generate(in)

	total := 0
	for _, sev := range types.Severities {
		total += len(report.FindingsBySeverity[sev])
	}
	if total != report.TotalFindings || total != 5 {
		t.Errorf("partition covers %d findings, TotalFindings = %d", total, report.TotalFindings)
	}

	counts := map[types.Severity]int{}
	for sev, bucket := range report.FindingsBySeverity {
		counts[sev] = len(bucket)
	}
	want := map[types.Severity]int{types.SeverityCritical: 1, types.SeverityHigh: 2, types.SeverityMedium: 0, types.SeverityLow: 2}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("bucket sizes = %v, want %v", counts, want)
	}

	if got := report.FindingsBySeverity[types.SeverityHigh]; got[0].Recommendation != "a" || got[1].Recommendation != "e" {
		t.Errorf("Expected HIGH bucket in input order, got %+v", got)
	}
}

func TestGenerate_Summary(t *testing.T) {
	tests := []struct {
		name     string
		findings []types.Finding
		want     string
	}{
		{
			name:     "critical takes precedence",
			findings: []types.Finding{finding(types.SeverityCritical, "a"), finding(types.SeverityHigh, "b"), finding(types.SeverityHigh, "c")},
			want:     "Critical security issues found (1 critical, 2 high severity)",
		},
		{
			name:     "critical without high",
			findings: []types.Finding{finding(types.SeverityCritical, "a")},
			want:     "Critical security issues found (1 critical, 0 high severity)",
		},
		{
			name:     "high only",
			findings: []types.Finding{finding(types.SeverityHigh, "a"), finding(types.SeverityMedium, "b")},
			want:     "High severity security issues found (1 issues)",
		},
		{
			name:     "medium and low only",
			findings: []types.Finding{finding(types.SeverityMedium, "a"), finding(types.SeverityLow, "b")},
			want:     "No critical security issues detected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate([][]types.Finding{tt.findings}).Summary; got != tt.want {
				t.Errorf("Summary = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerate_RecommendationsDistinct(t *testing.T) {
	in := [][]types.Finding{
		{finding(types.SeverityHigh, "Restrict source IP ranges"), finding(types.SeverityHigh, "Enable MFA for enhanced security")},
		{finding(types.SeverityLow, "Restrict source IP ranges"), finding(types.SeverityLow, "")},
	}
	got := Generate(in).Recommendations
	want := []string{"Enable MFA for enhanced security", "Restrict source IP ranges"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recommendations = %v, want %v", got, want)
	}
}

func TestGenerate_ScenarioA(t *testing.T) {
	in := [][]types.Finding{
		{{Severity: types.SeverityHigh, Category: "Network Security", Recommendation: "Implement authentication or restrict access"}},
		nil,
		nil,
		nil,
	}
	report := Generate(in)

	if report.TotalFindings != 1 || report.RiskScore != 7 {
		t.Errorf("Expected 1 finding scoring 7, got %d scoring %d", report.TotalFindings, report.RiskScore)
	}
	if report.Summary != "High severity security issues found (1 issues)" {
		t.Errorf("Summary = %q", report.Summary)
	}
}
