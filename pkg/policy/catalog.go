package policy

import "github.com/ToluGIT/archguard/pkg/types"

// Rule describes one built-in rule. The rego modules decide whether a rule
// fires; the catalog fixes how its findings are graded.
type Rule struct {
	ID             string         `json:"id"`
	Agent          string         `json:"agent"`
	Name           string         `json:"name"`
	Severity       types.Severity `json:"severity"`
	Category       string         `json:"category"`
	Recommendation string         `json:"recommendation"`
}

// Categories
const (
	CategoryNetwork        = "Network Security"
	CategoryDataProtection = "Data Protection"
	CategoryInfrastructure = "Infrastructure Security"
	CategoryApplication    = "Application Security"
)

// Catalog lists every rule in reporting order
var Catalog = []Rule{
	{
		ID:             "network_exposed_service",
		Agent:          AgentNetwork,
		Name:           "Publicly exposed service without authentication",
		Severity:       types.SeverityHigh,
		Category:       CategoryNetwork,
		Recommendation: "Implement authentication or restrict access",
	},
	{
		ID:             "network_permissive_firewall",
		Agent:          AgentNetwork,
		Name:           "Firewall rule open to any source",
		Severity:       types.SeverityMedium,
		Category:       CategoryNetwork,
		Recommendation: "Restrict source IP ranges",
	},
	{
		ID:             "dataflow_plaintext_transit",
		Agent:          AgentDataFlow,
		Name:           "Unencrypted data flow",
		Severity:       types.SeverityHigh,
		Category:       CategoryDataProtection,
		Recommendation: "Enable encryption in transit",
	},
	{
		ID:             "dataflow_unencrypted_pii",
		Agent:          AgentDataFlow,
		Name:           "PII stored without encryption at rest",
		Severity:       types.SeverityCritical,
		Category:       CategoryDataProtection,
		Recommendation: "Enable database encryption",
	},
	{
		ID:             "infrastructure_wildcard_iam",
		Agent:          AgentInfrastructure,
		Name:           "IAM policy with wildcard actions",
		Severity:       types.SeverityHigh,
		Category:       CategoryInfrastructure,
		Recommendation: "Apply principle of least privilege",
	},
	{
		ID:             "infrastructure_public_bucket",
		Agent:          AgentInfrastructure,
		Name:           "Publicly readable storage bucket",
		Severity:       types.SeverityCritical,
		Category:       CategoryInfrastructure,
		Recommendation: "Restrict bucket access and enable access logging",
	},
	{
		ID:             "code_hardcoded_secret",
		Agent:          AgentCode,
		Name:           "Hardcoded credentials in source",
		Severity:       types.SeverityCritical,
		Category:       CategoryApplication,
		Recommendation: "Use environment variables or secret management",
	},
	{
		ID:             "code_missing_mfa",
		Agent:          AgentCode,
		Name:           "Multi-factor authentication disabled",
		Severity:       types.SeverityMedium,
		Category:       CategoryApplication,
		Recommendation: "Enable MFA for enhanced security",
	},
}

// Lookup returns the catalog entry for id and its position in Catalog
func Lookup(id string) (Rule, int, bool) {
	for i, r := range Catalog {
		if r.ID == id {
			return r, i, true
		}
	}
	return Rule{}, -1, false
}

// RulesFor returns the rules owned by agent, in catalog order
func RulesFor(agent string) []Rule {
	var rules []Rule
	for _, r := range Catalog {
		if r.Agent == agent {
			rules = append(rules, r)
		}
	}
	return rules
}

// Agents returns the agent names in catalog order
func Agents() []string {
	var names []string
	seen := make(map[string]bool)
	for _, r := range Catalog {
		if !seen[r.Agent] {
			seen[r.Agent] = true
			names = append(names, r.Agent)
		}
	}
	return names
}

// Finding grades a rule hit using the catalog entry
func (r Rule) Finding(description, affected string) types.Finding {
	return types.Finding{
		RuleID:            r.ID,
		Severity:          r.Severity,
		Category:          r.Category,
		Description:       description,
		Recommendation:    r.Recommendation,
		AffectedComponent: affected,
	}
}
