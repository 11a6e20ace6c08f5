package sarif

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ToluGIT/archguard/pkg/policy"
	"github.com/ToluGIT/archguard/pkg/remediation"
	"github.com/ToluGIT/archguard/pkg/types"
)

const (
	schemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	version   = "2.1.0"

	// unclassifiedRuleID is used for findings that carry no rule id
	unclassifiedRuleID = "archguard_finding"
)

// Reporter implements the SARIF format reporter
type Reporter struct {
	artifact  string
	suggester remediation.Suggester
}

// New creates a new SARIF reporter
func New() *Reporter {
	return &Reporter{}
}

// WithArtifact sets the URI of the analyzed file used in result locations
func (r *Reporter) WithArtifact(uri string) *Reporter {
	r.artifact = uri
	return r
}

// WithSuggester adds remediation references to rule descriptors
func (r *Reporter) WithSuggester(s remediation.Suggester) *Reporter {
	r.suggester = s
	return r
}

// Write writes the result to the given writer in SARIF format
func (r *Reporter) Write(ctx context.Context, result *types.AnalysisResult, writer io.Writer) error {
	sarifReport, err := r.toSARIF(ctx, result)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifReport)
}

// Format returns the format this reporter outputs
func (r *Reporter) Format() string {
	return "sarif"
}

// SARIF structures
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool              `json:"tool"`
	Results    []sarifResult          `json:"results"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name            string      `json:"name"`
	Version         string      `json:"version"`
	SemanticVersion string      `json:"semanticVersion"`
	InformationURI  string      `json:"informationUri,omitempty"`
	Rules           []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifText              `json:"shortDescription"`
	FullDescription  sarifText              `json:"fullDescription"`
	Help             sarifText              `json:"help"`
	HelpURI          string                 `json:"helpUri,omitempty"`
	DefaultConfig    sarifRuleConfig        `json:"defaultConfiguration"`
	Properties       map[string]interface{} `json:"properties"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifRuleConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifText       `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation *sarifPhysicalLocation `json:"physicalLocation,omitempty"`
	LogicalLocations []sarifLogicalLocation `json:"logicalLocations,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifLogicalLocation struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (r *Reporter) toSARIF(ctx context.Context, result *types.AnalysisResult) (*sarifReport, error) {
	rules := []sarifRule{}
	ruleIndex := make(map[string]int)
	results := []sarifResult{}

	for _, f := range result.Findings {
		id := f.RuleID
		if id == "" {
			id = unclassifiedRuleID
		}

		idx, exists := ruleIndex[id]
		if !exists {
			rule, err := r.describeRule(ctx, id, f)
			if err != nil {
				return nil, err
			}
			idx = len(rules)
			ruleIndex[id] = idx
			rules = append(rules, rule)
		}

		location := sarifLocation{
			LogicalLocations: []sarifLogicalLocation{{Name: f.AffectedComponent, Kind: "module"}},
		}
		if r.artifact != "" {
			location.PhysicalLocation = &sarifPhysicalLocation{
				ArtifactLocation: sarifArtifactLocation{URI: r.artifact},
			}
		}

		results = append(results, sarifResult{
			RuleID:    id,
			RuleIndex: idx,
			Level:     severityToSARIFLevel(f.Severity),
			Message:   sarifText{Text: f.Description},
			Locations: []sarifLocation{location},
		})
	}

	return &sarifReport{
		Schema:  schemaURI,
		Version: version,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:            "ArchGuard",
						Version:         "1.0.0",
						SemanticVersion: "1.0.0",
						Rules:           rules,
					},
				},
				Results: results,
				Properties: map[string]interface{}{
					"jobId":     result.JobID,
					"riskScore": result.RiskScore,
				},
			},
		},
	}, nil
}

// describeRule builds a descriptor from the catalog, falling back to the
// finding itself for rules the catalog does not know.
func (r *Reporter) describeRule(ctx context.Context, id string, f types.Finding) (sarifRule, error) {
	rule := sarifRule{
		ID:               id,
		Name:             ruleName(id),
		ShortDescription: sarifText{Text: ruleName(id)},
		FullDescription:  sarifText{Text: f.Description},
		Help:             sarifText{Text: f.Recommendation},
		DefaultConfig:    sarifRuleConfig{Level: severityToSARIFLevel(f.Severity)},
		Properties: map[string]interface{}{
			"severity": string(f.Severity.Normalize()),
			"category": f.Category,
			"tags":     []string{"security", "architecture"},
		},
	}

	if entry, _, ok := policy.Lookup(id); ok {
		rule.ShortDescription = sarifText{Text: entry.Name}
		rule.Help = sarifText{Text: entry.Recommendation}
		rule.DefaultConfig = sarifRuleConfig{Level: severityToSARIFLevel(entry.Severity)}
		rule.Properties["severity"] = string(entry.Severity)
		rule.Properties["category"] = entry.Category
		rule.Properties["agent"] = entry.Agent
	}

	if r.suggester != nil {
		suggestion, err := r.suggester.Suggest(ctx, f)
		if err != nil {
			return sarifRule{}, fmt.Errorf("failed to describe rule %s: %w", id, err)
		}
		if suggestion != nil && len(suggestion.References) > 0 {
			rule.HelpURI = suggestion.References[0]
		}
	}

	return rule, nil
}

func severityToSARIFLevel(severity types.Severity) string {
	switch severity.Normalize() {
	case types.SeverityCritical, types.SeverityHigh:
		return "error"
	case types.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// ruleName converts a rule id to title case
func ruleName(ruleID string) string {
	words := strings.Split(ruleID, "_")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}
