package drift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livingdoc/analysis-core/artifact"
)

func flaskEndpoint(handler, path, method string) artifact.ApiEndpoint {
	return artifact.ApiEndpoint{
		Path:        path,
		HTTPMethod:  method,
		HandlerName: handler,
		Language:    "python",
		FilePath:    "app.py",
		Framework:   "flask",
	}
}

func TestEndpointRemoved(t *testing.T) {
	baseline := artifact.Artifacts{APIEndpoints: []artifact.ApiEndpoint{flaskEndpoint("gone", "/gone", "GET")}}
	current := artifact.Artifacts{}

	findings := (&EndpointRemovedRule{}).Evaluate(baseline, current)
	require.Len(t, findings, 1)
	assert.Equal(t, TypeAPIRemoved, findings[0].DriftType)
	assert.Equal(t, SeverityHigh, findings[0].Severity)
	assert.Contains(t, findings[0].Description, "GET /gone")
}

// An endpoint rename within the same handler identity fires the path rule,
// not the removed rule.
func TestEndpointRenameFiresPathChangedOnly(t *testing.T) {
	baseline := artifact.Artifacts{APIEndpoints: []artifact.ApiEndpoint{flaskEndpoint("hello_route", "/hello", "GET")}}
	current := artifact.Artifacts{APIEndpoints: []artifact.ApiEndpoint{flaskEndpoint("hello_route", "/hi", "GET")}}

	findings := NewEngine().Evaluate(baseline, current)
	require.Len(t, findings, 1)
	assert.Equal(t, TypeAPIPathChanged, findings[0].DriftType)
	assert.Equal(t, SeverityMedium, findings[0].Severity)
}

// A handler moved to a different path and method fires both change rules
// and never the removed rule.
func TestEndpointPathAndMethodChangedTogether(t *testing.T) {
	baseline := artifact.Artifacts{APIEndpoints: []artifact.ApiEndpoint{flaskEndpoint("handler", "/old", "GET")}}
	current := artifact.Artifacts{APIEndpoints: []artifact.ApiEndpoint{flaskEndpoint("handler", "/new", "POST")}}

	findings := NewEngine().Evaluate(baseline, current)
	types := make(map[string]int)
	for _, finding := range findings {
		types[finding.DriftType]++
	}
	assert.Equal(t, 1, types[TypeAPIPathChanged])
	assert.Equal(t, 1, types[TypeAPIMethodChanged])
	assert.Zero(t, types[TypeAPIRemoved])
}

func TestEndpointMethodComparedUppercase(t *testing.T) {
	baseline := artifact.Artifacts{APIEndpoints: []artifact.ApiEndpoint{flaskEndpoint("h", "/p", "get")}}
	current := artifact.Artifacts{APIEndpoints: []artifact.ApiEndpoint{flaskEndpoint("h", "/p", "GET")}}

	findings := (&EndpointMethodChangedRule{}).Evaluate(baseline, current)
	assert.Empty(t, findings)
}

func TestDependencyAddedAndRemoved(t *testing.T) {
	baseline := artifact.Artifacts{Relations: []artifact.Relation{
		{Source: "a", Target: "b", RelationType: artifact.RelationImports, Language: "python", FilePath: "a.py"},
		{Source: "a", Target: "old", RelationType: artifact.RelationImports, Language: "python", FilePath: "a.py"},
	}}
	current := artifact.Artifacts{Relations: []artifact.Relation{
		{Source: "a", Target: "b", RelationType: artifact.RelationImports, Language: "python", FilePath: "a.py"},
		{Source: "a", Target: "new", RelationType: artifact.RelationImports, Language: "python", FilePath: "a.py"},
	}}

	added := (&DependencyAddedRule{}).Evaluate(baseline, current)
	require.Len(t, added, 1)
	assert.Equal(t, TypeDependencyAdded, added[0].DriftType)
	assert.Equal(t, SeverityLow, added[0].Severity)
	assert.Contains(t, added[0].Description, "to new added")

	removed := (&DependencyRemovedRule{}).Evaluate(baseline, current)
	require.Len(t, removed, 1)
	assert.Equal(t, TypeDependencyRemoved, removed[0].DriftType)
	assert.Equal(t, SeverityMedium, removed[0].Severity)
}

// CALLS relations are not dependency-like and never feed the dependency
// rules.
func TestDependencyRulesIgnoreCallRelations(t *testing.T) {
	current := artifact.Artifacts{Relations: []artifact.Relation{
		{Source: "f", Target: "g", RelationType: artifact.RelationCalls, Language: "python", FilePath: "a.py"},
	}}
	assert.Empty(t, (&DependencyAddedRule{}).Evaluate(artifact.Artifacts{}, current))
}

func TestAPIHandlerMissing(t *testing.T) {
	endpoint := flaskEndpoint("hello_route", "/hello", "GET")
	baseline := artifact.Artifacts{
		Symbols:      []artifact.Symbol{{Name: "hello_route", SymbolType: artifact.SymbolFunction, Language: "python", FilePath: "app.py"}},
		APIEndpoints: []artifact.ApiEndpoint{endpoint},
	}
	current := artifact.Artifacts{}

	findings := (&APIHandlerMissingRule{}).Evaluate(baseline, current)
	require.Len(t, findings, 1)
	assert.Equal(t, TypeAPIHandlerMissing, findings[0].DriftType)
	assert.Equal(t, SeverityHigh, findings[0].Severity)
}

// The rule only fires on a disappearance: a handler that never existed as
// a symbol is not reported.
func TestAPIHandlerMissingSkipsNeverDefined(t *testing.T) {
	baseline := artifact.Artifacts{APIEndpoints: []artifact.ApiEndpoint{flaskEndpoint("ghost", "/g", "GET")}}
	assert.Empty(t, (&APIHandlerMissingRule{}).Evaluate(baseline, artifact.Artifacts{}))
}

func TestSymbolReferenceMissing(t *testing.T) {
	relation := artifact.Relation{
		Source: "caller", Target: "callee",
		RelationType: artifact.RelationCalls, Language: "python", FilePath: "a.py",
	}
	baseline := artifact.Artifacts{Symbols: []artifact.Symbol{
		{Name: "caller", SymbolType: artifact.SymbolFunction, Language: "python", FilePath: "a.py"},
	}}
	current := artifact.Artifacts{Relations: []artifact.Relation{relation, relation}}

	findings := (&SymbolReferenceMissingRule{}).Evaluate(baseline, current)
	require.Len(t, findings, 1)
	assert.Equal(t, TypeSymbolReferenceMissing, findings[0].DriftType)
	assert.Equal(t, "source", findings[0].Metadata["role"])
	assert.Equal(t, "caller", findings[0].Metadata["missing_symbol"])
}

// TestRulePurity checks that evaluation is a pure function of the two
// snapshots: repeated runs return identical findings.
func TestRulePurity(t *testing.T) {
	baseline := artifact.Artifacts{
		Symbols:      []artifact.Symbol{{Name: "s", SymbolType: artifact.SymbolFunction, Language: "python"}},
		Relations:    []artifact.Relation{{Source: "a", Target: "b", RelationType: artifact.RelationImports, Language: "python"}},
		APIEndpoints: []artifact.ApiEndpoint{flaskEndpoint("s", "/s", "GET")},
	}
	current := artifact.Artifacts{
		Relations: []artifact.Relation{{Source: "s", Target: "t", RelationType: artifact.RelationCalls, Language: "python"}},
	}

	engine := NewEngine()
	first := engine.Evaluate(baseline, current)
	second := engine.Evaluate(baseline, current)
	assert.Equal(t, first, second)
}

func TestEngineRuleRegistration(t *testing.T) {
	engine := NewEngine()
	count := len(engine.Rules())
	engine.AddRule(&EndpointRemovedRule{})
	engine.ExtendRules(&DependencyAddedRule{}, &DependencyRemovedRule{})
	assert.Len(t, engine.Rules(), count+3)
}

func TestIsDependencyRelation(t *testing.T) {
	assert.True(t, isDependencyRelation(artifact.Relation{RelationType: "IMPORTS"}))
	assert.True(t, isDependencyRelation(artifact.Relation{RelationType: "module_depends_on"}))
	assert.False(t, isDependencyRelation(artifact.Relation{RelationType: "CALLS"}))
}

func TestIsSymbolReferenceRelation(t *testing.T) {
	assert.True(t, isSymbolReferenceRelation(artifact.Relation{RelationType: "CALLS"}))
	assert.True(t, isSymbolReferenceRelation(artifact.Relation{RelationType: "references"}))
	assert.False(t, isSymbolReferenceRelation(artifact.Relation{RelationType: "IMPORTS"}))
}
