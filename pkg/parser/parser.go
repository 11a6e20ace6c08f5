package parser

import (
	"context"
	"fmt"

	"github.com/ToluGIT/archguard/pkg/types"
)

// Parser turns the content of one architecture description into the
// canonical model
type Parser interface {
	// Parse decodes content. filename is only a hint used for messages.
	Parse(ctx context.Context, content []byte, filename string) (*types.Architecture, error)

	// SupportedExtensions returns the file extensions this parser supports
	SupportedExtensions() []string
}

// ParseError reports malformed structured input
type ParseError struct {
	Filename string
	Format   string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s file %s: %v", e.Format, e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError wraps err as a ParseError
func NewParseError(filename, format string, err error) *ParseError {
	return &ParseError{Filename: filename, Format: format, Err: err}
}
