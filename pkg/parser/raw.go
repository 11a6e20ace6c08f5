package parser

import (
	"context"

	"github.com/ToluGIT/archguard/pkg/types"
)

// FormatRaw marks models produced from unrecognized input
const FormatRaw = "raw"

// Raw keeps unrecognized input as opaque text. The resulting model declares
// no entities, so every rule yields zero findings for it.
type Raw struct{}

// NewRaw creates a raw passthrough parser
func NewRaw() *Raw {
	return &Raw{}
}

// Parse never fails
func (r *Raw) Parse(ctx context.Context, content []byte, filename string) (*types.Architecture, error) {
	return &types.Architecture{
		RawContent: string(content),
		Format:     FormatRaw,
	}, nil
}

// SupportedExtensions is empty; Raw is only used as a fallback
func (r *Raw) SupportedExtensions() []string {
	return nil
}
