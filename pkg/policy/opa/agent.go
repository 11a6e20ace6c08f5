package opa

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/open-policy-agent/opa/rego"

	"github.com/ToluGIT/archguard"
	"github.com/ToluGIT/archguard/pkg/logger"
	"github.com/ToluGIT/archguard/pkg/policy"
	"github.com/ToluGIT/archguard/pkg/types"
)

// Agent implements policy.Agent by evaluating one rego module. The module
// declares a partial set rule "deny" in package archguard.<name> whose
// elements are objects with rule_id, index, description and
// affected_component.
type Agent struct {
	name  string
	query rego.PreparedEvalQuery
	log   *logger.Logger
}

// hit is one element of a module's deny set
type hit struct {
	ruleID      string
	index       int64
	description string
	affected    string
}

// NewAgent compiles module and prepares the deny query for name
func NewAgent(ctx context.Context, name, module string) (*Agent, error) {
	query := fmt.Sprintf("data.archguard.%s.deny", name)

	pq, err := rego.New(
		rego.Query(query),
		rego.Module(name+".rego", module),
		rego.StrictBuiltinErrors(true),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare %s policy: %w", name, err)
	}

	return &Agent{
		name:  name,
		query: pq,
		log:   logger.Default().WithPrefix("agent/" + name),
	}, nil
}

// newEmbeddedAgent prepares the module embedded under policies/<name>.rego
func newEmbeddedAgent(ctx context.Context, name string) (*Agent, error) {
	module, err := archguard.Policy(name)
	if err != nil {
		return nil, err
	}
	return NewAgent(ctx, name, module)
}

// WithLogger sets a custom logger for the agent
func (a *Agent) WithLogger(log *logger.Logger) *Agent {
	a.log = log
	return a
}

// Name returns the agent name
func (a *Agent) Name() string {
	return a.name
}

// Analyze evaluates the module against arch. Findings come back in catalog
// order, then in the order the offending entities appear in the model.
func (a *Agent) Analyze(ctx context.Context, arch *types.Architecture) ([]types.Finding, error) {
	if arch == nil {
		arch = &types.Architecture{}
	}

	rs, err := a.query.Eval(ctx, rego.EvalInput(arch))
	if err != nil {
		return nil, &policy.RuleEvaluationError{Agent: a.name, Err: err}
	}

	hits, err := parseResultSet(rs)
	if err != nil {
		return nil, &policy.RuleEvaluationError{Agent: a.name, Err: err}
	}

	type graded struct {
		finding types.Finding
		order   int
		index   int64
	}

	results := make([]graded, 0, len(hits))
	for _, h := range hits {
		rule, order, ok := policy.Lookup(h.ruleID)
		if !ok {
			return nil, &policy.RuleEvaluationError{Agent: a.name, Err: fmt.Errorf("unknown rule id %q", h.ruleID)}
		}
		if rule.Agent != a.name {
			return nil, &policy.RuleEvaluationError{Agent: a.name, Err: fmt.Errorf("rule %s belongs to the %s agent", rule.ID, rule.Agent)}
		}
		results = append(results, graded{
			finding: rule.Finding(h.description, h.affected),
			order:   order,
			index:   h.index,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].order != results[j].order {
			return results[i].order < results[j].order
		}
		return results[i].index < results[j].index
	})

	findings := make([]types.Finding, 0, len(results))
	for _, r := range results {
		findings = append(findings, r.finding)
	}

	a.log.Debug("Evaluated %d rule hit(s)", len(findings))
	return findings, nil
}

// parseResultSet extracts the deny set from the query result. An undefined
// result means the module produced nothing.
func parseResultSet(rs rego.ResultSet) ([]hit, error) {
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return nil, nil
	}

	elems, ok := rs[0].Expressions[0].Value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("deny must be a set, got %T", rs[0].Expressions[0].Value)
	}

	hits := make([]hit, 0, len(elems))
	for _, elem := range elems {
		h, err := parseHit(elem)
		if err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, nil
}

func parseHit(v interface{}) (hit, error) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return hit{}, fmt.Errorf("invalid deny element: %v", v)
	}

	var h hit
	if h.ruleID, ok = obj["rule_id"].(string); !ok || h.ruleID == "" {
		return hit{}, fmt.Errorf("deny element without rule_id: %v", obj)
	}
	h.description, _ = obj["description"].(string)
	h.affected, _ = obj["affected_component"].(string)

	switch idx := obj["index"].(type) {
	case json.Number:
		n, err := idx.Int64()
		if err != nil {
			return hit{}, fmt.Errorf("invalid index for %s: %w", h.ruleID, err)
		}
		h.index = n
	case nil:
	default:
		return hit{}, fmt.Errorf("invalid index for %s: %v", h.ruleID, idx)
	}

	return h, nil
}
