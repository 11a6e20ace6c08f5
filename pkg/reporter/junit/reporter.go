package junit

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/ToluGIT/archguard/pkg/policy"
	"github.com/ToluGIT/archguard/pkg/types"
)

// otherSuite collects findings whose category is not in the catalog
const otherSuite = "Other"

// Reporter implements the JUnit XML format reporter. Each category becomes a
// test suite and each catalog rule a test case; a rule hit is an error for
// CRITICAL and HIGH findings and a failure otherwise.
type Reporter struct{}

// New creates a new JUnit reporter
func New() *Reporter {
	return &Reporter{}
}

// Write writes the result to the given writer in JUnit XML format
func (r *Reporter) Write(ctx context.Context, result *types.AnalysisResult, writer io.Writer) error {
	suites := r.toJUnit(result)

	if _, err := io.WriteString(writer, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}
	_, err := io.WriteString(writer, "\n")
	return err
}

// Format returns the format this reporter outputs
func (r *Reporter) Format() string {
	return "junit"
}

// JUnit XML structures
type testSuites struct {
	XMLName    xml.Name    `xml:"testsuites"`
	Name       string      `xml:"name,attr"`
	Tests      int         `xml:"tests,attr"`
	Failures   int         `xml:"failures,attr"`
	Errors     int         `xml:"errors,attr"`
	TestSuites []testSuite `xml:"testsuite"`
}

type testSuite struct {
	Name      string     `xml:"name,attr"`
	Tests     int        `xml:"tests,attr"`
	Failures  int        `xml:"failures,attr"`
	Errors    int        `xml:"errors,attr"`
	TestCases []testCase `xml:"testcase"`
}

type testCase struct {
	Name      string   `xml:"name,attr"`
	ClassName string   `xml:"classname,attr"`
	Failure   *failure `xml:"failure,omitempty"`
	Error     *failure `xml:"error,omitempty"`
}

type failure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

func (r *Reporter) toJUnit(result *types.AnalysisResult) *testSuites {
	byRule := make(map[string][]types.Finding)
	var unmatched []types.Finding
	for _, f := range result.Findings {
		if _, _, ok := policy.Lookup(f.RuleID); ok {
			byRule[f.RuleID] = append(byRule[f.RuleID], f)
		} else {
			unmatched = append(unmatched, f)
		}
	}

	var order []string
	suitesByName := make(map[string]*testSuite)
	suiteFor := func(name string) *testSuite {
		s, ok := suitesByName[name]
		if !ok {
			s = &testSuite{Name: name}
			suitesByName[name] = s
			order = append(order, name)
		}
		return s
	}

	for _, rule := range policy.Catalog {
		suite := suiteFor(rule.Category)
		findings := byRule[rule.ID]
		if len(findings) == 0 {
			suite.add(testCase{Name: rule.ID, ClassName: rule.Agent})
			continue
		}
		for _, f := range findings {
			suite.add(failedCase(rule.ID+": "+f.AffectedComponent, rule.Agent, f))
		}
	}

	for _, f := range unmatched {
		name := f.Category
		if name == "" {
			name = otherSuite
		}
		suiteFor(name).add(failedCase(f.AffectedComponent, "archguard", f))
	}

	report := &testSuites{Name: fmt.Sprintf("ArchGuard analysis %s", result.JobID)}
	for _, name := range order {
		s := suitesByName[name]
		report.Tests += s.Tests
		report.Failures += s.Failures
		report.Errors += s.Errors
		report.TestSuites = append(report.TestSuites, *s)
	}
	return report
}

func (s *testSuite) add(tc testCase) {
	s.Tests++
	if tc.Error != nil {
		s.Errors++
	}
	if tc.Failure != nil {
		s.Failures++
	}
	s.TestCases = append(s.TestCases, tc)
}

func failedCase(name, className string, f types.Finding) testCase {
	tc := testCase{Name: name, ClassName: className}
	detail := &failure{
		Message: f.Description,
		Type:    string(f.Severity),
		Text: fmt.Sprintf("%s\n\nComponent: %s\n\nRecommendation: %s",
			f.Description, f.AffectedComponent, f.Recommendation),
	}

	switch f.Severity.Normalize() {
	case types.SeverityCritical, types.SeverityHigh:
		tc.Error = detail
	default:
		tc.Failure = detail
	}
	return tc
}
