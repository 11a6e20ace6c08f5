package structured

import (
	"context"
	"encoding/json"

	"github.com/ToluGIT/archguard/pkg/parser"
	"github.com/ToluGIT/archguard/pkg/types"
)

// FormatJSON marks models decoded from JSON
const FormatJSON = "json"

// JSON implements parser.Parser for strict JSON documents
type JSON struct{}

// NewJSON creates a JSON parser
func NewJSON() *JSON {
	return &JSON{}
}

// Parse decodes a JSON architecture document
func (p *JSON) Parse(ctx context.Context, content []byte, filename string) (*types.Architecture, error) {
	var doc interface{}
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, parser.NewParseError(filename, FormatJSON, err)
	}

	arch, err := decode(doc, FormatJSON)
	if err != nil {
		return nil, parser.NewParseError(filename, FormatJSON, err)
	}
	return arch, nil
}

// SupportedExtensions returns the file extensions this parser supports
func (p *JSON) SupportedExtensions() []string {
	return []string{".json"}
}
