package depend

import (
	"strings"

	"github.com/livingdoc/analysis-core/artifact"
)

// APIAnalyzer emits API_DEPENDS_ON edges. For each endpoint it records the
// endpoint → handler edge, then expands the handler to a best-effort
// candidate set (the handler itself, class-qualified handler, and every
// symbol whose name ends in the handler's final segment or the class name)
// and records one edge per call or import whose source is a candidate.
//
// The suffix matcher is syntactic and can collide across packages with
// identical final segments; precise resolution belongs to a future
// cross-file type resolver.
type APIAnalyzer struct{}

type apiSignature struct {
	api          string
	target       string
	language     string
	relationType string
}

func (a *APIAnalyzer) Analyze(artifacts artifact.Artifacts) []Dependency {
	var dependencies []Dependency
	seen := make(map[apiSignature]bool)

	var calls, imports []artifact.Relation
	for _, relation := range artifacts.Relations {
		switch relation.RelationType {
		case artifact.RelationCalls:
			calls = append(calls, relation)
		case artifact.RelationImports:
			imports = append(imports, relation)
		}
	}

	for _, endpoint := range artifacts.APIEndpoints {
		apiIdentifier := endpoint.Framework + ":" + endpoint.Path
		handler := endpoint.HandlerName
		if handler == "" {
			handler = "<anonymous>"
		}

		metadata := map[string]any{
			"file_path":   endpoint.FilePath,
			"http_method": endpoint.HTTPMethod,
			"framework":   endpoint.Framework,
		}
		if endpoint.ClassName != "" {
			metadata["class_name"] = endpoint.ClassName
		}
		if endpoint.Metadata != nil {
			metadata["endpoint_metadata"] = endpoint.Metadata
		}

		sig := apiSignature{api: apiIdentifier, target: handler, language: endpoint.Language, relationType: "handler"}
		if !seen[sig] {
			seen[sig] = true
			dependencies = append(dependencies, Dependency{
				Source:         apiIdentifier,
				Target:         handler,
				DependencyType: APIDependsOn,
				Language:       endpoint.Language,
				Metadata:       metadata,
			})
		}

		candidates := handlerCandidates(endpoint, artifacts.Symbols)
		dependencies = append(dependencies, a.relationDependencies(apiIdentifier, endpoint, candidates, calls, artifact.RelationCalls, seen)...)
		dependencies = append(dependencies, a.relationDependencies(apiIdentifier, endpoint, candidates, imports, artifact.RelationImports, seen)...)
	}
	return dependencies
}

func (a *APIAnalyzer) relationDependencies(
	apiIdentifier string,
	endpoint artifact.ApiEndpoint,
	candidates map[string]bool,
	relations []artifact.Relation,
	relationType string,
	seen map[apiSignature]bool,
) []Dependency {
	var dependencies []Dependency
	for _, relation := range relations {
		if !candidates[relation.Source] || relation.Target == "" {
			continue
		}
		sig := apiSignature{api: apiIdentifier, target: relation.Target, language: endpoint.Language, relationType: relationType}
		if seen[sig] {
			continue
		}
		seen[sig] = true
		dependencies = append(dependencies, Dependency{
			Source:         apiIdentifier,
			Target:         relation.Target,
			DependencyType: APIDependsOn,
			Language:       endpoint.Language,
			Metadata: map[string]any{
				"via_handler":        relation.Source,
				"relation_type":      relation.RelationType,
				"relation_file_path": relation.FilePath,
			},
		})
	}
	return dependencies
}

func handlerCandidates(endpoint artifact.ApiEndpoint, symbols []artifact.Symbol) map[string]bool {
	candidates := make(map[string]bool)
	handler := endpoint.HandlerName
	className := endpoint.ClassName

	if handler != "" {
		candidates[handler] = true
		if className != "" {
			candidates[className+"."+handler] = true
		}
		suffix := handler
		if idx := strings.LastIndex(handler, "."); idx >= 0 {
			suffix = handler[idx+1:]
		}
		for _, symbol := range symbols {
			if strings.HasSuffix(symbol.Name, suffix) {
				candidates[symbol.Name] = true
			}
		}
	}
	if className != "" {
		for _, symbol := range symbols {
			if strings.HasSuffix(symbol.Name, className) {
				candidates[symbol.Name] = true
			}
		}
	}
	return candidates
}
