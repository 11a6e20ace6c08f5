package remediation

import (
	"context"

	"github.com/ToluGIT/archguard/pkg/types"
)

// Suggester defines the interface for generating remediation suggestions
type Suggester interface {
	// Suggest generates a remediation suggestion for one finding
	Suggest(ctx context.Context, finding types.Finding) (*Suggestion, error)

	// SuggestBatch generates suggestions for multiple findings
	SuggestBatch(ctx context.Context, findings []types.Finding) ([]*Suggestion, error)
}

// Suggestion represents a remediation suggestion
type Suggestion struct {
	RuleID      string   `json:"rule_id"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
	Fix         *Fix     `json:"fix,omitempty"`
	References  []string `json:"references,omitempty"`
}

// Fix is a suggested change to the architecture description
type Fix struct {
	Component   string `json:"component"`
	OldContent  string `json:"old_content"`
	NewContent  string `json:"new_content"`
	Explanation string `json:"explanation"`
}
