package drift

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// findingEnv is the expression environment one finding is evaluated
// against.
type findingEnv struct {
	DriftType   string         `expr:"drift_type"`
	Description string         `expr:"description"`
	Severity    string         `expr:"severity"`
	Metadata    map[string]any `expr:"metadata"`
}

// CompileFilter compiles a boolean finding-filter expression such as
// `severity == "HIGH"` or `drift_type matches "API_.*"`.
func CompileFilter(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression, expr.Env(findingEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling finding filter: %w", err)
	}
	return program, nil
}

// FilterFindings keeps the findings for which the expression evaluates to
// true. An empty expression keeps everything.
func FilterFindings(findings []Finding, expression string) ([]Finding, error) {
	if expression == "" {
		return findings, nil
	}
	program, err := CompileFilter(expression)
	if err != nil {
		return nil, err
	}
	kept := make([]Finding, 0, len(findings))
	for _, finding := range findings {
		result, err := expr.Run(program, findingEnv{
			DriftType:   finding.DriftType,
			Description: finding.Description,
			Severity:    string(finding.Severity),
			Metadata:    finding.Metadata,
		})
		if err != nil {
			return nil, fmt.Errorf("evaluating finding filter: %w", err)
		}
		if keep, ok := result.(bool); ok && keep {
			kept = append(kept, finding)
		}
	}
	return kept, nil
}
