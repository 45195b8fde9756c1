package depend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livingdoc/analysis-core/artifact"
)

func TestModuleDependencies(t *testing.T) {
	artifacts := artifact.Artifacts{
		Relations: []artifact.Relation{
			{Source: "app", Target: "flask", RelationType: artifact.RelationImports, Language: "python", FilePath: "app.py"},
			{Source: "", Target: "os", RelationType: artifact.RelationImports, Language: "python", FilePath: "app.py"},
			{Source: "app", Target: "helper", RelationType: artifact.RelationCalls, Language: "python", FilePath: "app.py"},
		},
	}
	dependencies := (&ModuleAnalyzer{}).Analyze(artifacts)
	require.Len(t, dependencies, 2)

	assert.Equal(t, ModuleDependsOn, dependencies[0].DependencyType)
	assert.Equal(t, "app", dependencies[0].Source)
	assert.Equal(t, "flask", dependencies[0].Target)
	// Empty sources fall back to the file path.
	assert.Equal(t, "app.py", dependencies[1].Source)
	assert.Equal(t, "os", dependencies[1].Target)
}

// TestDependencyDeduplication verifies the family signature: no two
// emitted dependencies share (source, target, language).
func TestDependencyDeduplication(t *testing.T) {
	duplicate := artifact.Relation{Source: "a", Target: "b", RelationType: artifact.RelationImports, Language: "python", FilePath: "x.py"}
	otherLanguage := duplicate
	otherLanguage.Language = "java"
	artifacts := artifact.Artifacts{
		Relations: []artifact.Relation{duplicate, duplicate, otherLanguage},
	}
	dependencies := (&ModuleAnalyzer{}).Analyze(artifacts)
	assert.Len(t, dependencies, 2)
}

func TestFunctionDependenciesSkipEmptyEndpoints(t *testing.T) {
	artifacts := artifact.Artifacts{
		Relations: []artifact.Relation{
			{Source: "caller", Target: "callee", RelationType: artifact.RelationCalls, Language: "python", FilePath: "a.py"},
			{Source: "", Target: "callee", RelationType: artifact.RelationCalls, Language: "python", FilePath: "a.py"},
			{Source: "caller", Target: "", RelationType: artifact.RelationCalls, Language: "python", FilePath: "a.py"},
		},
	}
	dependencies := (&FunctionAnalyzer{}).Analyze(artifacts)
	require.Len(t, dependencies, 1)
	assert.Equal(t, FunctionCalls, dependencies[0].DependencyType)
	assert.Equal(t, "caller", dependencies[0].Source)
	assert.Equal(t, "callee", dependencies[0].Target)
}

// TestAPIDependencyFanOut covers the endpoint -> handler -> transitive
// expansion: the handler edge, a call made by the handler, and an import
// made by a class-based view matched through the symbol suffix candidates.
func TestAPIDependencyFanOut(t *testing.T) {
	artifacts := artifact.Artifacts{
		Symbols: []artifact.Symbol{
			{Name: "module.views.status_view", SymbolType: artifact.SymbolFunction, Language: "python", FilePath: "module/views.py"},
			{Name: "module.repositories.ItemRepository", SymbolType: artifact.SymbolClass, Language: "python", FilePath: "module/repositories.py"},
		},
		Relations: []artifact.Relation{
			{Source: "status_view", Target: "fetch_status", RelationType: artifact.RelationCalls, Language: "python", FilePath: "module/views.py"},
			{Source: "module.views.ItemDetailView.as_view", Target: "module.repositories.ItemRepository", RelationType: artifact.RelationImports, Language: "python", FilePath: "module/views.py"},
		},
		APIEndpoints: []artifact.ApiEndpoint{
			{Path: "/status", HTTPMethod: "GET", HandlerName: "status_view", Language: "python", FilePath: "module/urls.py", Framework: "django"},
			{Path: "/items", HTTPMethod: "GET", HandlerName: "module.views.ItemDetailView.as_view", ClassName: "module.views.ItemDetailView", Language: "python", FilePath: "module/urls.py", Framework: "django"},
		},
	}

	dependencies := (&APIAnalyzer{}).Analyze(artifacts)

	type edge struct{ source, target string }
	edges := make(map[edge]Dependency)
	for _, dependency := range dependencies {
		assert.Equal(t, APIDependsOn, dependency.DependencyType)
		edges[edge{dependency.Source, dependency.Target}] = dependency
	}

	require.Contains(t, edges, edge{"django:/status", "status_view"})
	require.Contains(t, edges, edge{"django:/status", "fetch_status"})
	assert.Equal(t, "status_view", edges[edge{"django:/status", "fetch_status"}].Metadata["via_handler"])

	require.Contains(t, edges, edge{"django:/items", "module.repositories.ItemRepository"})
	assert.Equal(t, "module.views.ItemDetailView.as_view",
		edges[edge{"django:/items", "module.repositories.ItemRepository"}].Metadata["via_handler"])
}

// Duplicate edges across the handler/call/import roles share one
// signature set keyed by relation type.
func TestAPIDependencySignatureSharedAcrossRoles(t *testing.T) {
	artifacts := artifact.Artifacts{
		Relations: []artifact.Relation{
			{Source: "handler", Target: "x", RelationType: artifact.RelationCalls, Language: "python", FilePath: "a.py"},
			{Source: "handler", Target: "x", RelationType: artifact.RelationCalls, Language: "python", FilePath: "b.py"},
		},
		APIEndpoints: []artifact.ApiEndpoint{
			{Path: "/e", HTTPMethod: "GET", HandlerName: "handler", Language: "python", Framework: "flask"},
		},
	}
	dependencies := (&APIAnalyzer{}).Analyze(artifacts)
	// handler edge + one deduplicated call edge
	assert.Len(t, dependencies, 2)
}

func TestManagerConcatenatesFamilies(t *testing.T) {
	artifacts := artifact.Artifacts{
		Relations: []artifact.Relation{
			{Source: "a", Target: "b", RelationType: artifact.RelationImports, Language: "python", FilePath: "a.py"},
			{Source: "f", Target: "g", RelationType: artifact.RelationCalls, Language: "python", FilePath: "a.py"},
		},
	}
	dependencies := NewManager().Analyze(artifacts)
	types := make(map[string]int)
	for _, dependency := range dependencies {
		types[dependency.DependencyType]++
	}
	assert.Equal(t, 1, types[ModuleDependsOn])
	assert.Equal(t, 1, types[FunctionCalls])
}
