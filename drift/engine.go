package drift

import "github.com/livingdoc/analysis-core/artifact"

// Rule detects one category of drift between a baseline and a current
// snapshot. Rules are independent and order-insensitive; the engine is the
// only place that orders them.
type Rule interface {
	Evaluate(baseline, current artifact.Artifacts) []Finding
}

// Engine evaluates an ordered list of rules and concatenates their
// findings.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with the given rules, or the default rule
// set when none are given.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// DefaultRules returns the built-in rule set in its canonical order.
func DefaultRules() []Rule {
	return []Rule{
		&EndpointRemovedRule{},
		&EndpointPathChangedRule{},
		&EndpointMethodChangedRule{},
		&DependencyAddedRule{},
		&DependencyRemovedRule{},
		&APIHandlerMissingRule{},
		&SymbolReferenceMissingRule{},
	}
}

// Rules returns the engine's rules in evaluation order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// AddRule appends a rule to the evaluation order.
func (e *Engine) AddRule(rule Rule) {
	e.rules = append(e.rules, rule)
}

// ExtendRules appends several rules to the evaluation order.
func (e *Engine) ExtendRules(rules ...Rule) {
	e.rules = append(e.rules, rules...)
}

// Evaluate runs every rule over the two snapshots. One rule's empty input
// never suppresses another.
func (e *Engine) Evaluate(baseline, current artifact.Artifacts) []Finding {
	var findings []Finding
	for _, rule := range e.rules {
		findings = append(findings, rule.Evaluate(baseline, current)...)
	}
	return findings
}
