package opa

import (
	"context"

	"github.com/ToluGIT/archguard/pkg/policy"
)

// NewNetworkAgent flags exposed services and permissive firewall rules
func NewNetworkAgent(ctx context.Context) (*Agent, error) {
	return newEmbeddedAgent(ctx, policy.AgentNetwork)
}

// NewDataFlowAgent flags plaintext flows and unencrypted PII stores
func NewDataFlowAgent(ctx context.Context) (*Agent, error) {
	return newEmbeddedAgent(ctx, policy.AgentDataFlow)
}

// NewInfrastructureAgent flags wildcard IAM policies and public buckets
func NewInfrastructureAgent(ctx context.Context) (*Agent, error) {
	return newEmbeddedAgent(ctx, policy.AgentInfrastructure)
}

// NewCodeAgent flags hardcoded secrets and missing MFA
func NewCodeAgent(ctx context.Context) (*Agent, error) {
	return newEmbeddedAgent(ctx, policy.AgentCode)
}

// Builtin prepares the four built-in agents
func Builtin(ctx context.Context) ([]policy.Agent, error) {
	constructors := []func(context.Context) (*Agent, error){
		NewNetworkAgent,
		NewDataFlowAgent,
		NewInfrastructureAgent,
		NewCodeAgent,
	}

	agents := make([]policy.Agent, 0, len(constructors))
	for _, newAgent := range constructors {
		a, err := newAgent(ctx)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, nil
}
