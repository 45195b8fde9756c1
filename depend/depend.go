// Package depend derives typed dependency edges from a complete artifact
// snapshot. Each analyzer is a pure transform emitting one dependency
// family, independently deduplicated by a language-qualified signature.
package depend

import "github.com/livingdoc/analysis-core/artifact"

// Dependency families.
const (
	ModuleDependsOn = "MODULE_DEPENDS_ON"
	FunctionCalls   = "FUNCTION_CALLS"
	APIDependsOn    = "API_DEPENDS_ON"
)

// Dependency is a deduplicated edge between two named entities.
type Dependency struct {
	Source         string         `json:"source"`
	Target         string         `json:"target"`
	DependencyType string         `json:"dependency_type"`
	Language       string         `json:"language"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// Analyzer emits one dependency family from an artifact snapshot.
type Analyzer interface {
	Analyze(artifacts artifact.Artifacts) []Dependency
}

// Manager runs a fixed sequence of dependency analyzers and concatenates
// their output.
type Manager struct {
	analyzers []Analyzer
}

// NewManager creates a manager with the default analyzer sequence:
// module, function, then API dependencies.
func NewManager(analyzers ...Analyzer) *Manager {
	if len(analyzers) == 0 {
		analyzers = []Analyzer{
			&ModuleAnalyzer{},
			&FunctionAnalyzer{},
			&APIAnalyzer{},
		}
	}
	return &Manager{analyzers: analyzers}
}

// Analyze runs every analyzer over the snapshot.
func (m *Manager) Analyze(artifacts artifact.Artifacts) []Dependency {
	var dependencies []Dependency
	for _, analyzer := range m.analyzers {
		dependencies = append(dependencies, analyzer.Analyze(artifacts)...)
	}
	return dependencies
}

type signature struct {
	source   string
	target   string
	language string
}

// relationDependencies is the shared body of the module and function
// analyzers: filter relations by type, default empty sources, emit one
// deduplicated dependency per (source, target, language).
func relationDependencies(artifacts artifact.Artifacts, relationType, dependencyType string, fallbackSource bool) []Dependency {
	var dependencies []Dependency
	seen := make(map[signature]bool)

	for _, relation := range artifacts.Relations {
		if relation.RelationType != relationType {
			continue
		}
		source := relation.Source
		if source == "" && fallbackSource {
			source = relation.FilePath
		}
		if source == "" || relation.Target == "" {
			continue
		}
		sig := signature{source: source, target: relation.Target, language: relation.Language}
		if seen[sig] {
			continue
		}
		seen[sig] = true
		dependencies = append(dependencies, Dependency{
			Source:         source,
			Target:         relation.Target,
			DependencyType: dependencyType,
			Language:       relation.Language,
			Metadata:       map[string]any{"file_path": relation.FilePath},
		})
	}
	return dependencies
}

// ModuleAnalyzer emits MODULE_DEPENDS_ON edges from IMPORTS relations,
// falling back to the file path when a relation has no source scope.
type ModuleAnalyzer struct{}

func (a *ModuleAnalyzer) Analyze(artifacts artifact.Artifacts) []Dependency {
	return relationDependencies(artifacts, artifact.RelationImports, ModuleDependsOn, true)
}

// FunctionAnalyzer emits FUNCTION_CALLS edges from CALLS relations with
// nonempty source and target.
type FunctionAnalyzer struct{}

func (a *FunctionAnalyzer) Analyze(artifacts artifact.Artifacts) []Dependency {
	return relationDependencies(artifacts, artifact.RelationCalls, FunctionCalls, false)
}
