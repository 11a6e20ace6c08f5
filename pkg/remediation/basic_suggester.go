package remediation

import (
	"context"
	"fmt"

	"github.com/ToluGIT/archguard/pkg/types"
)

// Suggestion types
const (
	TypeRemediation = "remediation"
	TypeGeneric     = "generic"
)

// BasicSuggester provides per-rule remediation suggestions
type BasicSuggester struct {
	suggestions map[string]suggestionTemplate
}

type suggestionTemplate struct {
	description string
	steps       []string
	fixFunc     func(finding types.Finding) *Fix
	references  []string
}

// NewBasicSuggester creates a new basic suggester
func NewBasicSuggester() *BasicSuggester {
	return &BasicSuggester{
		suggestions: initSuggestionTemplates(),
	}
}

// Suggest generates a remediation suggestion for a single finding
func (s *BasicSuggester) Suggest(ctx context.Context, finding types.Finding) (*Suggestion, error) {
	template, exists := s.suggestions[finding.RuleID]
	if !exists {
		return s.genericSuggestion(finding), nil
	}

	suggestion := &Suggestion{
		RuleID:      finding.RuleID,
		Type:        TypeRemediation,
		Description: template.description,
		Steps:       template.steps,
		References:  template.references,
	}
	if template.fixFunc != nil {
		suggestion.Fix = template.fixFunc(finding)
	}

	return suggestion, nil
}

// SuggestBatch generates suggestions for multiple findings
func (s *BasicSuggester) SuggestBatch(ctx context.Context, findings []types.Finding) ([]*Suggestion, error) {
	suggestions := make([]*Suggestion, 0, len(findings))
	for _, f := range findings {
		suggestion, err := s.Suggest(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("failed to generate suggestion for %s: %w", f.AffectedComponent, err)
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions, nil
}

// genericSuggestion is used for findings without a rule template
func (s *BasicSuggester) genericSuggestion(finding types.Finding) *Suggestion {
	steps := []string{
		fmt.Sprintf("1. Review the component '%s'", finding.AffectedComponent),
		fmt.Sprintf("2. Address the issue: %s", finding.Description),
	}
	if finding.Recommendation != "" {
		steps = append(steps, fmt.Sprintf("3. %s", finding.Recommendation))
	}
	steps = append(steps, fmt.Sprintf("%d. Re-run the analysis to verify the fix", len(steps)+1))

	return &Suggestion{
		RuleID:      finding.RuleID,
		Type:        TypeGeneric,
		Description: fmt.Sprintf("Review and fix the security issue: %s", finding.Description),
		Steps:       steps,
		References: []string{
			"https://owasp.org/www-project-application-security-verification-standard/",
		},
	}
}

func initSuggestionTemplates() map[string]suggestionTemplate {
	return map[string]suggestionTemplate{
		"network_exposed_service": {
			description: "Require authentication for public services",
			steps: []string{
				"1. Put the service behind an authenticating gateway or enable its built-in authentication",
				"2. If the service does not need to be public, move it to a private network",
				"3. Mark the service as authenticated in the architecture description",
			},
			fixFunc: toggleFix("authentication: false", "authentication: true", "Require callers to authenticate"),
			references: []string{
				"https://owasp.org/Top10/A07_2021-Identification_and_Authentication_Failures/",
			},
		},
		"network_permissive_firewall": {
			description: "Restrict firewall rule sources",
			steps: []string{
				"1. Replace 0.0.0.0/0 with the specific CIDR ranges that need access",
				"2. Use a bastion host or VPN for administrative ports",
				"3. Document legitimate access requirements",
			},
			fixFunc: toggleFix(`source: "0.0.0.0/0"`, `source: "10.0.0.0/8"`, "Restrict access to specific IP ranges instead of allowing all traffic"),
			references: []string{
				"https://docs.aws.amazon.com/vpc/latest/userguide/VPC_SecurityGroups.html",
			},
		},
		"dataflow_plaintext_transit": {
			description: "Encrypt data in transit",
			steps: []string{
				"1. Terminate TLS on the destination of the flow",
				"2. Configure the source to require TLS and verify certificates",
				"3. Consider mutual TLS for service-to-service traffic",
			},
			fixFunc: toggleFix("encrypted: false", "encrypted: true", "Mark the flow as encrypted once TLS is enforced"),
			references: []string{
				"https://cheatsheetseries.owasp.org/cheatsheets/Transport_Layer_Security_Cheat_Sheet.html",
			},
		},
		"dataflow_unencrypted_pii": {
			description: "Encrypt databases holding PII at rest",
			steps: []string{
				"1. Enable storage-level encryption for the database",
				"2. Manage the keys in a KMS and rotate them regularly",
				"3. Restrict who can read the decrypted data",
			},
			fixFunc: toggleFix("encrypted_at_rest: false", "encrypted_at_rest: true", "Enable encryption at rest for the database"),
			references: []string{
				"https://cheatsheetseries.owasp.org/cheatsheets/Cryptographic_Storage_Cheat_Sheet.html",
			},
		},
		"infrastructure_wildcard_iam": {
			description: "Replace wildcard IAM actions",
			steps: []string{
				"1. List the actions the principal actually uses",
				"2. Replace \"*\" with that explicit list",
				"3. Scope resources to the specific ARNs needed",
			},
			fixFunc: toggleFix(`actions: ["*"]`, `actions: ["s3:GetObject"]`, "Grant only the actions the principal needs"),
			references: []string{
				"https://docs.aws.amazon.com/IAM/latest/UserGuide/best-practices.html#grant-least-privilege",
			},
		},
		"infrastructure_public_bucket": {
			description: "Block public access to the bucket",
			steps: []string{
				"1. Remove public read grants from the bucket",
				"2. Enable a public access block",
				"3. Enable access logging to a separate bucket",
			},
			fixFunc: toggleFix("public_read: true", "public_read: false", "Disable public reads"),
			references: []string{
				"https://docs.aws.amazon.com/AmazonS3/latest/userguide/access-control-block-public-access.html",
			},
		},
		"code_hardcoded_secret": {
			description: "Move credentials out of source code",
			steps: []string{
				"1. Rotate the exposed credential",
				"2. Load it from an environment variable or a secret manager",
				"3. Scan history and remove the secret from version control",
			},
			references: []string{
				"https://cheatsheetseries.owasp.org/cheatsheets/Secrets_Management_Cheat_Sheet.html",
			},
		},
		"code_missing_mfa": {
			description: "Enable multi-factor authentication",
			steps: []string{
				"1. Enable a second factor in the identity provider",
				"2. Enforce it for administrative accounts first",
				"3. Roll it out to all users",
			},
			fixFunc: toggleFix("multi_factor: false", "multi_factor: true", "Require a second factor at sign-in"),
			references: []string{
				"https://cheatsheetseries.owasp.org/cheatsheets/Multifactor_Authentication_Cheat_Sheet.html",
			},
		},
	}
}

// toggleFix builds a fix that replaces one attribute of the affected component
func toggleFix(before, after, explanation string) func(types.Finding) *Fix {
	return func(f types.Finding) *Fix {
		return &Fix{
			Component:   f.AffectedComponent,
			OldContent:  before,
			NewContent:  after,
			Explanation: explanation,
		}
	}
}
