package policy

import (
	"context"

	"github.com/ToluGIT/archguard/pkg/types"
)

// Agent names
const (
	AgentNetwork        = "network"
	AgentDataFlow       = "dataflow"
	AgentInfrastructure = "infrastructure"
	AgentCode           = "code"
)

// Agent evaluates one fixed family of security rules against a model
type Agent interface {
	// Name identifies the agent, e.g. "network"
	Name() string

	// Analyze returns the findings for arch. It must not modify arch.
	Analyze(ctx context.Context, arch *types.Architecture) ([]types.Finding, error)
}
