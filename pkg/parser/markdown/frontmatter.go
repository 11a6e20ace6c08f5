package markdown

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ToluGIT/archguard/pkg/types"
)

// frontmatter holds the sections the table dialect cannot express
type frontmatter struct {
	CodeFiles      []types.CodeFile  `yaml:"code_files"`
	Authentication *types.AuthConfig `yaml:"authentication"`
}

// splitFrontmatter separates a leading "---" YAML block from the body. ok is
// false when the document has no frontmatter.
func splitFrontmatter(data []byte) (fm []byte, body []byte, ok bool) {
	const delim = "---\n"
	if !bytes.HasPrefix(data, []byte(delim)) {
		return nil, data, false
	}
	rest := data[len(delim):]
	idx := bytes.Index(rest, []byte("\n---"))
	if idx < 0 {
		return nil, data, false
	}
	fm = rest[:idx]
	tail := rest[idx+len("\n---"):]
	if len(tail) > 0 && tail[0] == '\n' {
		tail = tail[1:]
	}
	return fm, tail, true
}

func (fm *frontmatter) empty() bool {
	return len(fm.CodeFiles) == 0 && fm.Authentication == nil
}

func decodeFrontmatter(raw []byte) (*frontmatter, error) {
	var fm frontmatter
	if err := yaml.Unmarshal(raw, &fm); err != nil {
		return nil, fmt.Errorf("frontmatter: %w", err)
	}
	return &fm, nil
}
