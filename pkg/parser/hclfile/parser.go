// Package hclfile reads architecture descriptions written in HCL native
// syntax:
//
//	variable "edge_port" { default = 443 }
//
//	service "web" {
//	  public         = true
//	  authentication = false
//	  port           = var.edge_port
//	}
//
//	firewall_rule { source = "0.0.0.0/0" port = 22 protocol = "tcp" }
//	data_flow "web" "db" { encrypted = true }
//	database "users" { data_types = ["pii"] encrypted_at_rest = false }
//	iam_policy "admin" { actions = ["*"] resources = ["*"] }
//	storage_bucket "assets" { public_read = false encrypted = true }
//	code_file "app.py" { content = "..." }
//	authentication { multi_factor = true }
//
// Expressions may call upper, lower, join, concat, format and split.
package hclfile

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/ToluGIT/archguard/pkg/logger"
	"github.com/ToluGIT/archguard/pkg/parser"
	"github.com/ToluGIT/archguard/pkg/types"
)

// FormatHCL marks models decoded from HCL
const FormatHCL = "hcl"

type document struct {
	Variables      []variableBlock     `hcl:"variable,block"`
	Services       []serviceBlock      `hcl:"service,block"`
	FirewallRules  []firewallRuleBlock `hcl:"firewall_rule,block"`
	DataFlows      []dataFlowBlock     `hcl:"data_flow,block"`
	Databases      []databaseBlock     `hcl:"database,block"`
	IAMPolicies    []iamPolicyBlock    `hcl:"iam_policy,block"`
	Storage        []bucketBlock       `hcl:"storage_bucket,block"`
	CodeFiles      []codeFileBlock     `hcl:"code_file,block"`
	Authentication *authBlock          `hcl:"authentication,block"`
}

type variableBlock struct {
	Name   string   `hcl:"name,label"`
	Remain hcl.Body `hcl:",remain"`
}

type serviceBlock struct {
	Name           string `hcl:"name,label"`
	Public         bool   `hcl:"public,optional"`
	Authentication bool   `hcl:"authentication,optional"`
	Port           int    `hcl:"port,optional"`
}

type firewallRuleBlock struct {
	Source   string `hcl:"source,optional"`
	Port     int    `hcl:"port,optional"`
	Protocol string `hcl:"protocol,optional"`
}

type dataFlowBlock struct {
	Source      string `hcl:"source,label"`
	Destination string `hcl:"destination,label"`
	Encrypted   bool   `hcl:"encrypted,optional"`
}

type databaseBlock struct {
	Name            string   `hcl:"name,label"`
	DataTypes       []string `hcl:"data_types,optional"`
	EncryptedAtRest bool     `hcl:"encrypted_at_rest,optional"`
}

type iamPolicyBlock struct {
	Name      string   `hcl:"name,label"`
	Actions   []string `hcl:"actions,optional"`
	Resources []string `hcl:"resources,optional"`
}

type bucketBlock struct {
	Name       string `hcl:"name,label"`
	PublicRead bool   `hcl:"public_read,optional"`
	Encrypted  bool   `hcl:"encrypted,optional"`
}

type codeFileBlock struct {
	Name    string `hcl:"name,label"`
	Content string `hcl:"content,optional"`
}

type authBlock struct {
	MultiFactor bool `hcl:"multi_factor,optional"`
}

// Parser implements parser.Parser for HCL architecture files
type Parser struct {
	functions map[string]function.Function
	log       *logger.Logger
}

// New creates a new HCL parser
func New() *Parser {
	return &Parser{
		functions: map[string]function.Function{
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
			"join":   stdlib.JoinFunc,
			"concat": stdlib.ConcatFunc,
			"format": stdlib.FormatFunc,
			"split":  stdlib.SplitFunc,
		},
		log: logger.Default().WithPrefix("hcl"),
	}
}

// WithLogger sets a custom logger for the parser
func (p *Parser) WithLogger(log *logger.Logger) *Parser {
	p.log = log
	return p
}

// Parse decodes an HCL architecture file
func (p *Parser) Parse(ctx context.Context, content []byte, filename string) (*types.Architecture, error) {
	// hclparse.Parser caches files by name, so each call gets its own.
	file, diags := hclparse.NewParser().ParseHCL(content, filename)
	if diags.HasErrors() {
		return nil, parser.NewParseError(filename, FormatHCL, diags)
	}

	evalCtx := &hcl.EvalContext{
		Functions: p.functions,
		Variables: map[string]cty.Value{},
	}

	vars, err := p.extractVariables(file, evalCtx)
	if err != nil {
		return nil, parser.NewParseError(filename, FormatHCL, err)
	}
	if len(vars) > 0 {
		evalCtx.Variables["var"] = cty.ObjectVal(vars)
	}

	var doc document
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &doc); diags.HasErrors() {
		return nil, parser.NewParseError(filename, FormatHCL, diags)
	}

	p.log.Debug("Decoded %d service(s) and %d variable(s) from %s", len(doc.Services), len(vars), filename)
	return doc.architecture(), nil
}

// SupportedExtensions returns the file extensions this parser supports
func (p *Parser) SupportedExtensions() []string {
	return []string{".hcl"}
}

// extractVariables evaluates the default of every variable block. Defaults
// may call functions but cannot reference other variables.
func (p *Parser) extractVariables(file *hcl.File, evalCtx *hcl.EvalContext) (map[string]cty.Value, error) {
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, nil
	}

	vars := make(map[string]cty.Value)
	for _, block := range body.Blocks {
		if block.Type != "variable" || len(block.Labels) == 0 {
			continue
		}
		name := block.Labels[0]
		attr, ok := block.Body.Attributes["default"]
		if !ok {
			return nil, fmt.Errorf("variable %q has no default value", name)
		}
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("variable %q: %s", name, diags.Error())
		}
		vars[name] = val
	}
	return vars, nil
}

func (d *document) architecture() *types.Architecture {
	arch := &types.Architecture{Format: FormatHCL}

	for _, s := range d.Services {
		arch.Services = append(arch.Services, types.Service{
			Name:          s.Name,
			Public:        s.Public,
			Authenticated: s.Authentication,
			Port:          s.Port,
		})
	}
	for _, r := range d.FirewallRules {
		arch.FirewallRules = append(arch.FirewallRules, types.FirewallRule{
			SourceCIDR: r.Source,
			Port:       r.Port,
			Protocol:   r.Protocol,
		})
	}
	for _, f := range d.DataFlows {
		arch.DataFlows = append(arch.DataFlows, types.DataFlow{
			Source:      f.Source,
			Destination: f.Destination,
			Encrypted:   f.Encrypted,
		})
	}
	for _, db := range d.Databases {
		arch.Databases = append(arch.Databases, types.Database{
			Name:            db.Name,
			DataTypes:       db.DataTypes,
			EncryptedAtRest: db.EncryptedAtRest,
		})
	}
	for _, pol := range d.IAMPolicies {
		arch.IAMPolicies = append(arch.IAMPolicies, types.IAMPolicy{
			Name:      pol.Name,
			Actions:   pol.Actions,
			Resources: pol.Resources,
		})
	}
	for _, b := range d.Storage {
		arch.Storage = append(arch.Storage, types.StorageBucket{
			Name:       b.Name,
			PublicRead: b.PublicRead,
			Encrypted:  b.Encrypted,
		})
	}
	for _, c := range d.CodeFiles {
		arch.CodeFiles = append(arch.CodeFiles, types.CodeFile{Name: c.Name, Content: c.Content})
	}
	if d.Authentication != nil {
		arch.Authentication = &types.AuthConfig{MultiFactor: d.Authentication.MultiFactor}
	}

	return arch
}
