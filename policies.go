package archguard

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

//go:embed policies/*.rego
var policiesFS embed.FS

// Policy returns the embedded rego source of the named agent module, e.g.
// "network" for policies/network.rego.
func Policy(name string) (string, error) {
	content, err := policiesFS.ReadFile(path.Join("policies", name+".rego"))
	if err != nil {
		return "", fmt.Errorf("no embedded policy for %s: %w", name, err)
	}
	return string(content), nil
}

// Policies returns every embedded module keyed by its path
func Policies() (map[string]string, error) {
	policies := make(map[string]string)

	err := fs.WalkDir(policiesFS, "policies", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".rego") {
			return nil
		}

		content, err := policiesFS.ReadFile(p)
		if err != nil {
			return err
		}
		policies[p] = string(content)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return policies, nil
}
