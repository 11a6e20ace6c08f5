// Package structured decodes architecture descriptions written as JSON or
// YAML documents. Both encodings share one JSON Schema so they accept exactly
// the same shapes.
package structured

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ToluGIT/archguard/pkg/types"
)

//go:embed architecture.schema.json
var schemaSource string

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaSource))
	})
	return schema, schemaErr
}

// Schema returns the JSON Schema source the structured parsers validate against
func Schema() string {
	return schemaSource
}

var errNotObject = errors.New("top-level value must be an object")

// decode validates a generic document and converts it into the canonical
// model. A nil document (empty input or an explicit null) is an empty model.
func decode(doc interface{}, format string) (*types.Architecture, error) {
	arch := &types.Architecture{Format: format}
	if doc == nil {
		return arch, nil
	}
	if _, ok := doc.(map[string]interface{}); !ok {
		return nil, errNotObject
	}

	s, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile architecture schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to validate document: %w", err)
	}
	if !result.Valid() {
		return nil, validationError(result.Errors())
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}
	if err := json.Unmarshal(data, arch); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	arch.Format = format
	return arch, nil
}

func validationError(errs []gojsonschema.ResultError) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return fmt.Errorf("invalid architecture document: %s", strings.Join(msgs, "; "))
}
