package drift

import (
	"sort"
	"strings"

	"github.com/livingdoc/analysis-core/artifact"
)

// HandlerIdentity matches endpoints across snapshots. It is deliberately
// decoupled from path and method so changes to either can be detected
// without losing the match.
type HandlerIdentity struct {
	Language  string
	Framework string
	ClassName string
	Handler   string
}

func handlerIdentityOf(endpoint artifact.ApiEndpoint) HandlerIdentity {
	return HandlerIdentity{
		Language:  endpoint.Language,
		Framework: endpoint.Framework,
		ClassName: endpoint.ClassName,
		Handler:   endpoint.HandlerName,
	}
}

// handlerIndex maps handler identities to endpoints while preserving
// first-seen order, so rule output is deterministic across evaluations.
// A later endpoint with the same identity overwrites the entry but keeps
// its original position.
type handlerIndex struct {
	order []HandlerIdentity
	byID  map[HandlerIdentity]artifact.ApiEndpoint
}

func buildHandlerIndex(endpoints []artifact.ApiEndpoint) handlerIndex {
	index := handlerIndex{byID: make(map[HandlerIdentity]artifact.ApiEndpoint)}
	for _, endpoint := range endpoints {
		id := handlerIdentityOf(endpoint)
		if _, ok := index.byID[id]; !ok {
			index.order = append(index.order, id)
		}
		index.byID[id] = endpoint
	}
	return index
}

func (i handlerIndex) contains(id HandlerIdentity) bool {
	_, ok := i.byID[id]
	return ok
}

// symbolIdentity is (language, qualified name).
type symbolIdentity struct {
	language string
	name     string
}

func buildSymbolSet(symbols []artifact.Symbol) map[symbolIdentity]bool {
	set := make(map[symbolIdentity]bool, len(symbols))
	for _, symbol := range symbols {
		set[symbolIdentity{language: symbol.Language, name: symbol.Name}] = true
	}
	return set
}

// candidateHandlerNames lists the names under which an endpoint's handler
// may have been recorded as a symbol.
func candidateHandlerNames(endpoint artifact.ApiEndpoint) []string {
	names := []string{endpoint.HandlerName}
	if endpoint.ClassName != "" {
		names = append(names, endpoint.ClassName+"."+endpoint.HandlerName, endpoint.ClassName)
	}
	return names
}

// dependencyIdentity is (language, relation type, source, target).
type dependencyIdentity struct {
	language     string
	relationType string
	source       string
	target       string
}

// isDependencyRelation matches import-like relation types. The contains
// predicate keeps the rule stable across naming variants (IMPORTS,
// MODULE_DEPENDS_ON, ...).
func isDependencyRelation(relation artifact.Relation) bool {
	relationType := strings.ToUpper(relation.RelationType)
	return strings.Contains(relationType, "IMPORT") || strings.Contains(relationType, "DEPEND")
}

// isSymbolReferenceRelation matches call/reference-like relation types.
func isSymbolReferenceRelation(relation artifact.Relation) bool {
	relationType := strings.ToUpper(relation.RelationType)
	for _, token := range []string{"CALL", "REFERENCE", "REFERS", "USE", "USES", "INVOKE"} {
		if strings.Contains(relationType, token) {
			return true
		}
	}
	return false
}

func buildDependencySet(relations []artifact.Relation) map[dependencyIdentity]bool {
	set := make(map[dependencyIdentity]bool)
	for _, relation := range relations {
		if !isDependencyRelation(relation) {
			continue
		}
		set[dependencyIdentity{
			language:     relation.Language,
			relationType: relation.RelationType,
			source:       relation.Source,
			target:       relation.Target,
		}] = true
	}
	return set
}

func indexDependencies(relations []artifact.Relation) map[dependencyIdentity]artifact.Relation {
	index := make(map[dependencyIdentity]artifact.Relation)
	for _, relation := range relations {
		if !isDependencyRelation(relation) {
			continue
		}
		index[dependencyIdentity{
			language:     relation.Language,
			relationType: relation.RelationType,
			source:       relation.Source,
			target:       relation.Target,
		}] = relation
	}
	return index
}

// sortedDependencyDiff returns the identities present in a but not in b,
// in a stable sorted order.
func sortedDependencyDiff(a, b map[dependencyIdentity]bool) []dependencyIdentity {
	var diff []dependencyIdentity
	for id := range a {
		if !b[id] {
			diff = append(diff, id)
		}
	}
	sort.Slice(diff, func(i, k int) bool {
		if diff[i].language != diff[k].language {
			return diff[i].language < diff[k].language
		}
		if diff[i].relationType != diff[k].relationType {
			return diff[i].relationType < diff[k].relationType
		}
		if diff[i].source != diff[k].source {
			return diff[i].source < diff[k].source
		}
		return diff[i].target < diff[k].target
	})
	return diff
}

func relationMetadata(relation artifact.Relation) map[string]any {
	return map[string]any{
		"source":        relation.Source,
		"target":        relation.Target,
		"relation_type": relation.RelationType,
		"language":      relation.Language,
		"file_path":     relation.FilePath,
	}
}

func endpointMetadata(endpoint artifact.ApiEndpoint) map[string]any {
	metadata := map[string]any{
		"path":         endpoint.Path,
		"http_method":  endpoint.HTTPMethod,
		"handler_name": endpoint.HandlerName,
		"language":     endpoint.Language,
		"file_path":    endpoint.FilePath,
		"framework":    endpoint.Framework,
	}
	if endpoint.ClassName != "" {
		metadata["class_name"] = endpoint.ClassName
	}
	if endpoint.Metadata != nil {
		metadata["metadata"] = endpoint.Metadata
	}
	return metadata
}

func identityMetadata(id HandlerIdentity) []string {
	return []string{id.Language, id.Framework, id.ClassName, id.Handler}
}
