package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ToluGIT/archguard/pkg/types"
)

// Factory dispatches uploads to the parser registered for their file
// extension. Unknown extensions go to the fallback parser.
type Factory struct {
	parsers  map[string]Parser
	fallback Parser
	mu       sync.RWMutex
}

// NewFactory creates a new parser factory that falls back to raw passthrough
func NewFactory() *Factory {
	return &Factory{
		parsers:  make(map[string]Parser),
		fallback: NewRaw(),
	}
}

// RegisterParser registers p for each of its supported extensions
func (f *Factory) RegisterParser(p Parser) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	exts := p.SupportedExtensions()
	for _, ext := range exts {
		ext = normalizeExtension(ext)
		if _, exists := f.parsers[ext]; exists {
			return fmt.Errorf("parser already registered for extension: %s", ext)
		}
	}
	for _, ext := range exts {
		f.parsers[normalizeExtension(ext)] = p
	}
	return nil
}

// GetParserByExtension returns the parser registered for extension
func (f *Factory) GetParserByExtension(extension string) (Parser, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	extension = normalizeExtension(extension)
	p, ok := f.parsers[extension]
	if !ok {
		return nil, fmt.Errorf("no parser found for extension: %s", extension)
	}
	return p, nil
}

// ParserFor returns the parser that handles filename, which is the fallback
// parser when the extension is not registered.
func (f *Factory) ParserFor(filename string) Parser {
	if p, err := f.GetParserByExtension(filepath.Ext(filename)); err == nil {
		return p
	}
	return f.fallback
}

// Parse decodes an upload with the parser chosen by its filename
func (f *Factory) Parse(ctx context.Context, upload types.Upload) (*types.Architecture, error) {
	return f.ParserFor(upload.Filename).Parse(ctx, upload.Content, upload.Filename)
}

// SupportedExtensions returns every registered extension, sorted
func (f *Factory) SupportedExtensions() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	exts := make([]string, 0, len(f.parsers))
	for ext := range f.parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
