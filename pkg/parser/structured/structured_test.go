package structured

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ToluGIT/archguard/pkg/parser"
)

func TestJSON_Parse(t *testing.T) {
	ctx := context.Background()
	p := NewJSON()

	content := []byte(`{
		"services": [{"name": "web-server", "public": true, "authentication": false, "port": 80}],
		"firewall_rules": [{"source": "0.0.0.0/0", "port": 22, "protocol": "tcp"}],
		"data_flows": [{"source": "web", "destination": "db", "encrypted": false}],
		"databases": [{"name": "user-db", "data_types": ["pii", "email"], "encrypted_at_rest": false}],
		"iam_policies": [{"name": "admin", "actions": ["*"], "resources": ["*"]}],
		"storage": [{"name": "assets", "public_read": true, "encrypted": true}],
		"code_files": [{"name": "config.py", "content": "API_KEY = 'abc'"}],
		"authentication": {"multi_factor": false},
		"unknown_section": {"ignored": true}
	}`)

	arch, err := p.Parse(ctx, content, "arch.json")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if arch.Format != FormatJSON {
		t.Errorf("Format = %q, want %q", arch.Format, FormatJSON)
	}
	if len(arch.Services) != 1 {
		t.Fatalf("Expected 1 service, got %d", len(arch.Services))
	}
	svc := arch.Services[0]
	if svc.Name != "web-server" || !svc.Public || svc.Authenticated || svc.Port != 80 {
		t.Errorf("Unexpected service: %+v", svc)
	}
	if arch.FirewallRules[0].SourceCIDR != "0.0.0.0/0" || arch.FirewallRules[0].Port != 22 {
		t.Errorf("Unexpected firewall rule: %+v", arch.FirewallRules[0])
	}
	if got := arch.Databases[0].DataTypes; len(got) != 2 || got[0] != "pii" {
		t.Errorf("Unexpected data types: %v", got)
	}
	if arch.IAMPolicies[0].Actions[0] != "*" {
		t.Errorf("Unexpected IAM policy: %+v", arch.IAMPolicies[0])
	}
	if !arch.Storage[0].PublicRead {
		t.Errorf("Expected public bucket, got %+v", arch.Storage[0])
	}
	if arch.Authentication == nil || arch.Authentication.MultiFactor {
		t.Errorf("Unexpected authentication: %+v", arch.Authentication)
	}
	if len(arch.CodeFiles) != 1 || arch.CodeFiles[0].Name != "config.py" {
		t.Errorf("Unexpected code files: %+v", arch.CodeFiles)
	}
}

func TestJSON_ParseErrors(t *testing.T) {
	ctx := context.Background()
	p := NewJSON()

	tests := []struct {
		name    string
		content string
		errText string
	}{
		{name: "invalid syntax", content: `{"invalid": json}`, errText: "invalid character"},
		{name: "unterminated", content: `{"services": [`, errText: "unexpected end"},
		{name: "empty input", content: ``, errText: "unexpected end"},
		{name: "top-level array", content: `[1, 2]`, errText: "must be an object"},
		{name: "wrong field type", content: `{"services": [{"name": "web", "public": "yes"}]}`, errText: "public"},
		{name: "section not a list", content: `{"databases": {"name": "db"}}`, errText: "databases"},
		{name: "port out of range", content: `{"firewall_rules": [{"port": 70000}]}`, errText: "port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arch, err := p.Parse(ctx, []byte(tt.content), "bad.json")
			if err == nil {
				t.Fatalf("Expected error, got model %+v", arch)
			}
			if arch != nil {
				t.Errorf("Expected nil model on error, got %+v", arch)
			}

			var parseErr *parser.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Expected *parser.ParseError, got %T", err)
			}
			if parseErr.Format != FormatJSON || parseErr.Filename != "bad.json" {
				t.Errorf("Unexpected ParseError fields: %+v", parseErr)
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("Expected error to contain %q, got %q", tt.errText, err.Error())
			}
		})
	}
}

func TestJSON_NullDocument(t *testing.T) {
	arch, err := NewJSON().Parse(context.Background(), []byte("null"), "empty.json")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !arch.IsEmpty() {
		t.Errorf("Expected empty model, got %+v", arch)
	}
}

func TestYAML_Parse(t *testing.T) {
	content := []byte(`
services:
  - name: api
    public: true
    authentication: true
    port: 443
databases:
  - name: orders
    data_types: [pii]
    encrypted_at_rest: true
authentication:
  multi_factor: true
`)

	arch, err := NewYAML().Parse(context.Background(), content, "arch.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if arch.Format != FormatYAML {
		t.Errorf("Format = %q, want %q", arch.Format, FormatYAML)
	}
	if len(arch.Services) != 1 || !arch.Services[0].Authenticated || arch.Services[0].Port != 443 {
		t.Errorf("Unexpected services: %+v", arch.Services)
	}
	if len(arch.Databases) != 1 || !arch.Databases[0].EncryptedAtRest {
		t.Errorf("Unexpected databases: %+v", arch.Databases)
	}
	if arch.Authentication == nil || !arch.Authentication.MultiFactor {
		t.Errorf("Unexpected authentication: %+v", arch.Authentication)
	}
	if arch.FirewallRules != nil {
		t.Errorf("Expected undeclared section to stay nil, got %+v", arch.FirewallRules)
	}
}

func TestYAML_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unclosed flow sequence", content: "services: [unclosed\n"},
		{name: "scalar document", content: "just a string"},
		{name: "wrong type", content: "storage:\n  - name: b\n    public_read: maybe\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYAML().Parse(context.Background(), []byte(tt.content), "bad.yml")
			var parseErr *parser.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Expected *parser.ParseError, got %v", err)
			}
			if parseErr.Format != FormatYAML {
				t.Errorf("Format = %q, want %q", parseErr.Format, FormatYAML)
			}
		})
	}
}

func TestYAML_EmptyDocument(t *testing.T) {
	arch, err := NewYAML().Parse(context.Background(), []byte(""), "empty.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !arch.IsEmpty() {
		t.Errorf("Expected empty model, got %+v", arch)
	}
}

func TestSupportedExtensions(t *testing.T) {
	if got := NewJSON().SupportedExtensions(); len(got) != 1 || got[0] != ".json" {
		t.Errorf("JSON extensions = %v", got)
	}
	if got := NewYAML().SupportedExtensions(); len(got) != 2 {
		t.Errorf("YAML extensions = %v", got)
	}
}
