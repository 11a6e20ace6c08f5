package structured

import (
	"context"

	"gopkg.in/yaml.v3"

	"github.com/ToluGIT/archguard/pkg/parser"
	"github.com/ToluGIT/archguard/pkg/types"
)

// FormatYAML marks models decoded from YAML
const FormatYAML = "yaml"

// YAML implements parser.Parser for YAML documents. Only the first document
// of a multi-document stream is read.
type YAML struct{}

// NewYAML creates a YAML parser
func NewYAML() *YAML {
	return &YAML{}
}

// Parse decodes a YAML architecture document
func (p *YAML) Parse(ctx context.Context, content []byte, filename string) (*types.Architecture, error) {
	var doc interface{}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, parser.NewParseError(filename, FormatYAML, err)
	}

	arch, err := decode(doc, FormatYAML)
	if err != nil {
		return nil, parser.NewParseError(filename, FormatYAML, err)
	}
	return arch, nil
}

// SupportedExtensions returns the file extensions this parser supports
func (p *YAML) SupportedExtensions() []string {
	return []string{".yml", ".yaml"}
}
