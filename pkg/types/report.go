package types

import "strings"

// Severity is the severity level of a finding
type Severity string

// Severity levels
const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// ParseSeverity parses a case-insensitive severity name.
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	switch sev {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return sev, true
	}
	return SeverityLow, false
}

// Normalize maps unknown or missing severities to LOW.
func (s Severity) Normalize() Severity {
	sev, _ := ParseSeverity(string(s))
	return sev
}

// Weight returns the risk score contribution of a single finding.
func (s Severity) Weight() int {
	switch s.Normalize() {
	case SeverityCritical:
		return 10
	case SeverityHigh:
		return 7
	case SeverityMedium:
		return 4
	default:
		return 1
	}
}

// Rank orders severities, lower is more severe.
func (s Severity) Rank() int {
	for i, sev := range Severities {
		if sev == s.Normalize() {
			return i
		}
	}
	return len(Severities)
}

// AtLeast reports whether s is as severe as or more severe than threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Rank() <= threshold.Rank()
}

// Finding is a single detected security issue. It is created by exactly one
// rule agent and never modified afterwards.
type Finding struct {
	RuleID            string   `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
	Severity          Severity `json:"severity" yaml:"severity"`
	Category          string   `json:"category" yaml:"category"`
	Description       string   `json:"description" yaml:"description"`
	Recommendation    string   `json:"recommendation" yaml:"recommendation"`
	AffectedComponent string   `json:"affected_component" yaml:"affected_component"`
}

// Report is the aggregated result of all rule agents
type Report struct {
	TotalFindings      int                    `json:"total_findings"`
	RiskScore          int                    `json:"risk_score"`
	FindingsBySeverity map[Severity][]Finding `json:"findings_by_severity"`
	Summary            string                 `json:"summary"`
	Recommendations    []string               `json:"recommendations"`
}

// Findings returns every finding in severity order.
func (r *Report) Findings() []Finding {
	if r == nil {
		return nil
	}
	findings := make([]Finding, 0, r.TotalFindings)
	for _, sev := range Severities {
		findings = append(findings, r.FindingsBySeverity[sev]...)
	}
	return findings
}

// Clone returns a deep copy of the report. Empty buckets stay non-nil.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	c := *r
	if r.FindingsBySeverity != nil {
		c.FindingsBySeverity = make(map[Severity][]Finding, len(r.FindingsBySeverity))
		for sev, findings := range r.FindingsBySeverity {
			c.FindingsBySeverity[sev] = append([]Finding{}, findings...)
		}
	}
	if r.Recommendations != nil {
		c.Recommendations = append([]string{}, r.Recommendations...)
	}
	return &c
}

// JobState is the lifecycle state of an analysis job
type JobState string

// Job states
const (
	JobProcessing JobState = "processing"
	JobCompleted  JobState = "completed"
	JobNotFound   JobState = "not_found"
)

// Job records one analysis request
type Job struct {
	ID     string   `json:"job_id"`
	Status JobState `json:"status"`
	Report *Report  `json:"report,omitempty"`
}

// JobStatus is the answer to a status query
type JobStatus struct {
	Status JobState `json:"status"`
	Report *Report  `json:"report,omitempty"`
}

// AnalysisResult is the outcome of processing one upload
type AnalysisResult struct {
	JobID     string    `json:"job_id"`
	Status    JobState  `json:"status"`
	Findings  []Finding `json:"findings"`
	RiskScore int       `json:"risk_score"`
	Report    *Report   `json:"report"`
}
