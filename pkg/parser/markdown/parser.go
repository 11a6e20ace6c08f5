// Package markdown reads architecture descriptions written as markdown
// tables, one table per "## <Section>" heading.
//
// Columns are matched by header text, so their order is irrelevant. Rows with
// the wrong number of cells are dropped and a section without valid rows is
// left undeclared. Parsing never fails.
package markdown

import (
	"bytes"
	"context"
	"strings"

	"github.com/ToluGIT/archguard/pkg/logger"
	"github.com/ToluGIT/archguard/pkg/types"
)

// FormatMarkdown marks models decoded from markdown
const FormatMarkdown = "markdown"

// Section headings
const (
	SectionServices      = "Services"
	SectionFirewallRules = "Firewall Rules"
	SectionDataFlows     = "Data Flows"
	SectionDatabases     = "Databases"
	SectionIAMPolicies   = "IAM Policies"
	SectionStorage       = "Storage"
)

// Column headers
const (
	ColumnName            = "Name"
	ColumnPublic          = "Public"
	ColumnAuthentication  = "Authentication"
	ColumnPort            = "Port"
	ColumnSource          = "Source"
	ColumnDestination     = "Destination"
	ColumnProtocol        = "Protocol"
	ColumnEncrypted       = "Encrypted"
	ColumnDataTypes       = "Data Types"
	ColumnEncryptedAtRest = "Encrypted at Rest"
	ColumnActions         = "Actions"
	ColumnResources       = "Resources"
	ColumnPublicRead      = "Public Read"
	ColumnEncryption      = "Encryption"
)

// defaultPort is used when a Port cell is missing or not a number
const defaultPort = 0

// sectionReader converts the rows of one table into model entities
type sectionReader struct {
	name  string
	apply func(rows []row, arch *types.Architecture)
}

var sections = []sectionReader{
	{name: SectionServices, apply: readServices},
	{name: SectionFirewallRules, apply: readFirewallRules},
	{name: SectionDataFlows, apply: readDataFlows},
	{name: SectionDatabases, apply: readDatabases},
	{name: SectionIAMPolicies, apply: readIAMPolicies},
	{name: SectionStorage, apply: readStorage},
}

// Parser implements parser.Parser for the markdown table dialect
type Parser struct {
	log *logger.Logger
}

// New creates a markdown parser
func New() *Parser {
	return &Parser{log: logger.Default().WithPrefix("markdown")}
}

// WithLogger sets a custom logger for the parser
func (p *Parser) WithLogger(log *logger.Logger) *Parser {
	p.log = log
	return p
}

// Parse extracts every recognized section. It never returns an error.
func (p *Parser) Parse(ctx context.Context, content []byte, filename string) (*types.Architecture, error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	arch := &types.Architecture{Format: FormatMarkdown}

	// A leading "---" may also be a horizontal rule. The block leaves the body
	// only when it decodes to frontmatter.
	body := content
	if raw, rest, ok := splitFrontmatter(content); ok {
		fm, err := decodeFrontmatter(raw)
		switch {
		case err != nil:
			p.log.Warn("Ignoring frontmatter in %s: %v", filename, err)
		case fm.empty():
			p.log.Debug("Leading block in %s declares nothing, reading it as markdown", filename)
		default:
			body = rest
			arch.CodeFiles = fm.CodeFiles
			arch.Authentication = fm.Authentication
		}
	}

	lines := strings.Split(string(body), "\n")
	for _, section := range sections {
		t := newTableScanner(section.name).scan(lines)
		if t.dropped > 0 {
			p.log.Debug("Dropped %d malformed row(s) in %s section of %s", t.dropped, section.name, filename)
		}
		if len(t.rows) == 0 {
			continue
		}
		section.apply(t.rows, arch)
		p.log.Debug("Read %d row(s) from %s section of %s", len(t.rows), section.name, filename)
	}

	return arch, nil
}

// SupportedExtensions returns the file extensions this parser supports
func (p *Parser) SupportedExtensions() []string {
	return []string{".md"}
}

func readServices(rows []row, arch *types.Architecture) {
	for _, r := range rows {
		arch.Services = append(arch.Services, types.Service{
			Name:          textCell(r, ColumnName),
			Public:        boolCell(r, ColumnPublic),
			Authenticated: boolCell(r, ColumnAuthentication),
			Port:          intCell(r, ColumnPort, defaultPort),
		})
	}
}

func readFirewallRules(rows []row, arch *types.Architecture) {
	for _, r := range rows {
		arch.FirewallRules = append(arch.FirewallRules, types.FirewallRule{
			SourceCIDR: textCell(r, ColumnSource),
			Port:       intCell(r, ColumnPort, defaultPort),
			Protocol:   textCell(r, ColumnProtocol),
		})
	}
}

func readDataFlows(rows []row, arch *types.Architecture) {
	for _, r := range rows {
		arch.DataFlows = append(arch.DataFlows, types.DataFlow{
			Source:      textCell(r, ColumnSource),
			Destination: textCell(r, ColumnDestination),
			Encrypted:   boolCell(r, ColumnEncrypted),
		})
	}
}

func readDatabases(rows []row, arch *types.Architecture) {
	for _, r := range rows {
		arch.Databases = append(arch.Databases, types.Database{
			Name:            textCell(r, ColumnName),
			DataTypes:       listCell(r, ColumnDataTypes),
			EncryptedAtRest: boolCell(r, ColumnEncryptedAtRest),
		})
	}
}

func readIAMPolicies(rows []row, arch *types.Architecture) {
	for _, r := range rows {
		arch.IAMPolicies = append(arch.IAMPolicies, types.IAMPolicy{
			Name:      textCell(r, ColumnName),
			Actions:   listCell(r, ColumnActions),
			Resources: listCell(r, ColumnResources),
		})
	}
}

func readStorage(rows []row, arch *types.Architecture) {
	for _, r := range rows {
		arch.Storage = append(arch.Storage, types.StorageBucket{
			Name:       textCell(r, ColumnName),
			PublicRead: boolCell(r, ColumnPublicRead),
			Encrypted:  boolCell(r, ColumnEncryption),
		})
	}
}
