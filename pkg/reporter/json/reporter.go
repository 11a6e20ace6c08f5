package json

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ToluGIT/archguard/pkg/types"
)

// Reporter implements the reporter.Reporter interface for JSON output
type Reporter struct {
	pretty bool
}

// New creates a new JSON reporter
func New() *Reporter {
	return &Reporter{
		pretty: true,
	}
}

// NewCompact creates a new JSON reporter with compact output
func NewCompact() *Reporter {
	return &Reporter{
		pretty: false,
	}
}

// Write writes the result to the given writer in JSON format
func (r *Reporter) Write(ctx context.Context, result *types.AnalysisResult, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	if r.pretty {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(result)
}

// Format returns the format this reporter outputs
func (r *Reporter) Format() string {
	return "json"
}
