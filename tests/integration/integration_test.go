//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ToluGIT/archguard/pkg/analyzer"
	"github.com/ToluGIT/archguard/pkg/logger"
	"github.com/ToluGIT/archguard/pkg/remediation"
	"github.com/ToluGIT/archguard/pkg/reporter"
	"github.com/ToluGIT/archguard/pkg/reporter/human"
	jsonreporter "github.com/ToluGIT/archguard/pkg/reporter/json"
	"github.com/ToluGIT/archguard/pkg/reporter/junit"
	"github.com/ToluGIT/archguard/pkg/reporter/sarif"
	"github.com/ToluGIT/archguard/pkg/types"
)

func getExamplePath(name string) string {
	_, currentFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(currentFile), "..", "..", "examples", name)
}

func newAnalyzer(t *testing.T) *analyzer.Analyzer {
	t.Helper()
	az, err := analyzer.NewDefault(context.Background(), analyzer.WithLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("NewDefault() error = %v", err)
	}
	return az
}

// TestFullPipeline runs every insecure example through parsing, all four
// agents, aggregation and every writer.
func TestFullPipeline(t *testing.T) {
	az := newAnalyzer(t)

	for _, name := range []string{"insecure.md", "insecure.json", "insecure.yaml", "insecure.hcl"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			result, err := az.AnalyzeFile(ctx, getExamplePath(name))
			if err != nil {
				t.Fatalf("AnalyzeFile() error = %v", err)
			}

			if result.Status != types.JobCompleted {
				t.Errorf("Status = %s, want completed", result.Status)
			}
			// every rule fires exactly once: 3 critical, 3 high, 2 medium
			if len(result.Findings) != 8 {
				t.Fatalf("Expected 8 findings, got %d: %+v", len(result.Findings), result.Findings)
			}
			if result.RiskScore != 59 {
				t.Errorf("RiskScore = %d, want 59", result.RiskScore)
			}
			if want := "Critical security issues found (3 critical, 3 high severity)"; result.Report.Summary != want {
				t.Errorf("Summary = %q, want %q", result.Report.Summary, want)
			}
			if len(result.Report.Recommendations) != 8 {
				t.Errorf("Expected 8 distinct recommendations, got %v", result.Report.Recommendations)
			}

			rules := make(map[string]bool)
			for _, f := range result.Findings {
				rules[f.RuleID] = true
			}
			if len(rules) != 8 {
				t.Errorf("Expected 8 distinct rules, got %v", rules)
			}

			if status := az.Status(ctx, result.JobID); status.Status != types.JobCompleted {
				t.Errorf("Status(%s) = %s, want completed", result.JobID, status.Status)
			}

			writeAll(t, result, name)
		})
	}
}

func writeAll(t *testing.T, result *types.AnalysisResult, artifact string) {
	t.Helper()
	suggester := remediation.NewBasicSuggester()
	writers := []reporter.Reporter{
		human.New().WithSuggester(suggester),
		jsonreporter.New(),
		sarif.New().WithArtifact(artifact).WithSuggester(suggester),
		junit.New(),
	}

	for _, w := range writers {
		var buf bytes.Buffer
		if err := w.Write(context.Background(), result, &buf); err != nil {
			t.Fatalf("%s Write() error = %v", w.Format(), err)
		}
		out := buf.Bytes()

		switch w.Format() {
		case "human":
			if !strings.Contains(string(out), "Risk Score:     59/100") {
				t.Errorf("human report missing risk score:\n%s", out)
			}
		case "json":
			var decoded types.AnalysisResult
			if err := json.Unmarshal(out, &decoded); err != nil {
				t.Errorf("json report is invalid: %v", err)
			} else if decoded.JobID != result.JobID {
				t.Errorf("json job_id = %q, want %q", decoded.JobID, result.JobID)
			}
		case "sarif":
			var decoded map[string]interface{}
			if err := json.Unmarshal(out, &decoded); err != nil {
				t.Errorf("sarif report is invalid: %v", err)
			}
		case "junit":
			var decoded struct {
				Tests  int `xml:"tests,attr"`
				Errors int `xml:"errors,attr"`
			}
			if err := xml.Unmarshal(out, &decoded); err != nil {
				t.Errorf("junit report is invalid: %v", err)
			} else if decoded.Tests != 8 || decoded.Errors != 6 {
				t.Errorf("junit tests=%d errors=%d, want 8 and 6", decoded.Tests, decoded.Errors)
			}
		}
	}
}

func TestSecureArchitecture(t *testing.T) {
	result, err := newAnalyzer(t).AnalyzeFile(context.Background(), getExamplePath("secure.yaml"))
	if err != nil {
		t.Fatalf("AnalyzeFile() error = %v", err)
	}
	if len(result.Findings) != 0 || result.RiskScore != 0 {
		t.Errorf("Expected a clean result, got %+v", result.Findings)
	}
	if result.Report.Summary != "No critical security issues detected" {
		t.Errorf("Unexpected summary: %q", result.Report.Summary)
	}
}

func TestRawInput(t *testing.T) {
	result, err := newAnalyzer(t).AnalyzeFile(context.Background(), getExamplePath("notes.txt"))
	if err != nil {
		t.Fatalf("AnalyzeFile() error = %v", err)
	}
	if len(result.Findings) != 0 || result.Status != types.JobCompleted {
		t.Errorf("Expected raw input to complete with no findings, got %+v", result)
	}
}

func TestConcurrentAnalysis(t *testing.T) {
	az := newAnalyzer(t)
	names := []string{"insecure.md", "insecure.json", "insecure.yaml", "insecure.hcl", "secure.yaml"}

	const rounds = 4
	results := make([]*types.AnalysisResult, rounds*len(names))

	g, ctx := errgroup.WithContext(context.Background())
	for i := range results {
		i := i
		g.Go(func() error {
			name := names[i%len(names)]
			result, err := az.AnalyzeFile(ctx, getExamplePath(name))
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent analysis failed: %v", err)
	}

	ids := make(map[string]bool)
	for i, result := range results {
		if ids[result.JobID] {
			t.Errorf("Duplicate job id %s", result.JobID)
		}
		ids[result.JobID] = true

		want := 8
		if names[i%len(names)] == "secure.yaml" {
			want = 0
		}
		if len(result.Findings) != want {
			t.Errorf("%s: got %d findings, want %d", names[i%len(names)], len(result.Findings), want)
		}
	}
}

func TestPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}

	az := newAnalyzer(t)
	start := time.Now()
	for i := 0; i < 50; i++ {
		if _, err := az.AnalyzeFile(context.Background(), getExamplePath("insecure.json")); err != nil {
			t.Fatalf("AnalyzeFile() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("50 analyses took %v", elapsed)
	}
}
