// Package formats assembles the parser factory with every built-in format.
package formats

import (
	"github.com/ToluGIT/archguard/pkg/logger"
	"github.com/ToluGIT/archguard/pkg/parser"
	"github.com/ToluGIT/archguard/pkg/parser/hclfile"
	"github.com/ToluGIT/archguard/pkg/parser/markdown"
	"github.com/ToluGIT/archguard/pkg/parser/structured"
)

// NewFactory returns a factory handling .json, .yaml, .yml, .md and .hcl.
// Any other extension is passed through as raw content.
func NewFactory(log *logger.Logger) (*parser.Factory, error) {
	if log == nil {
		log = logger.Default()
	}

	f := parser.NewFactory()
	parsers := []parser.Parser{
		structured.NewJSON(),
		structured.NewYAML(),
		markdown.New().WithLogger(log.WithPrefix("markdown")),
		hclfile.New().WithLogger(log.WithPrefix("hcl")),
	}
	for _, p := range parsers {
		if err := f.RegisterParser(p); err != nil {
			return nil, err
		}
	}
	return f, nil
}
