package policy

import "fmt"

// RuleEvaluationError reports that an agent could not evaluate its rules.
// One failing agent fails the whole analysis.
type RuleEvaluationError struct {
	Agent string
	Err   error
}

func (e *RuleEvaluationError) Error() string {
	return fmt.Sprintf("%s agent failed: %v", e.Agent, e.Err)
}

func (e *RuleEvaluationError) Unwrap() error {
	return e.Err
}
