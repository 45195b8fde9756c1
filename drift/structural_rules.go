package drift

import (
	"fmt"
	"sort"
	"strings"

	"github.com/livingdoc/analysis-core/artifact"
)

// APIHandlerMissingRule reports endpoints whose handler symbol existed in
// the baseline but is absent from the current symbols. Endpoints whose
// handler never appeared as a symbol are skipped; the rule only fires on a
// disappearance.
type APIHandlerMissingRule struct{}

func (r *APIHandlerMissingRule) Evaluate(baseline, current artifact.Artifacts) []Finding {
	var findings []Finding
	baselineSymbols := buildSymbolSet(baseline.Symbols)
	currentSymbols := buildSymbolSet(current.Symbols)
	for _, endpoint := range baseline.APIEndpoints {
		keys := r.symbolKeys(endpoint)
		if !anyKey(keys, baselineSymbols) {
			continue
		}
		if anyKey(keys, currentSymbols) {
			continue
		}
		candidates := make([]string, 0, len(keys))
		for _, key := range keys {
			candidates = append(candidates, key.name)
		}
		sort.Strings(candidates)
		findings = append(findings, Finding{
			DriftType: TypeAPIHandlerMissing,
			Description: fmt.Sprintf(
				"Handler for endpoint %s %s is missing from current symbols.",
				strings.ToUpper(endpoint.HTTPMethod), endpoint.Path,
			),
			Severity: SeverityHigh,
			Metadata: map[string]any{
				"endpoint": map[string]any{
					"handler_candidates": candidates,
					"details":            endpointMetadata(endpoint),
				},
			},
		})
	}
	return findings
}

func (r *APIHandlerMissingRule) symbolKeys(endpoint artifact.ApiEndpoint) []symbolIdentity {
	names := candidateHandlerNames(endpoint)
	keys := make([]symbolIdentity, 0, len(names))
	for _, name := range names {
		keys = append(keys, symbolIdentity{language: endpoint.Language, name: name})
	}
	return keys
}

func anyKey(keys []symbolIdentity, set map[symbolIdentity]bool) bool {
	for _, key := range keys {
		if set[key] {
			return true
		}
	}
	return false
}

// SymbolReferenceMissingRule reports call/reference relations in the
// current snapshot whose source or target symbol was defined in the
// baseline but is absent from the current symbols. Findings are
// deduplicated within the rule by a composite key so the same relation is
// never reported twice for the same role.
type SymbolReferenceMissingRule struct{}

type referenceKey struct {
	role         string
	language     string
	relationType string
	source       string
	target       string
	missing      string
}

func (r *SymbolReferenceMissingRule) Evaluate(baseline, current artifact.Artifacts) []Finding {
	var findings []Finding
	baselineSymbols := buildSymbolSet(baseline.Symbols)
	currentSymbols := buildSymbolSet(current.Symbols)
	reported := make(map[referenceKey]bool)

	for _, relation := range current.Relations {
		if !isSymbolReferenceRelation(relation) {
			continue
		}
		sourceKey := symbolIdentity{language: relation.Language, name: relation.Source}
		targetKey := symbolIdentity{language: relation.Language, name: relation.Target}

		if !currentSymbols[sourceKey] && baselineSymbols[sourceKey] {
			key := referenceKey{
				role:         "source",
				language:     relation.Language,
				relationType: relation.RelationType,
				source:       relation.Source,
				target:       relation.Target,
				missing:      relation.Source,
			}
			if !reported[key] {
				reported[key] = true
				findings = append(findings, r.finding(relation, relation.Source, "source"))
			}
		}
		if !currentSymbols[targetKey] && baselineSymbols[targetKey] {
			key := referenceKey{
				role:         "target",
				language:     relation.Language,
				relationType: relation.RelationType,
				source:       relation.Source,
				target:       relation.Target,
				missing:      relation.Target,
			}
			if !reported[key] {
				reported[key] = true
				findings = append(findings, r.finding(relation, relation.Target, "target"))
			}
		}
	}
	return findings
}

func (r *SymbolReferenceMissingRule) finding(relation artifact.Relation, missing, role string) Finding {
	return Finding{
		DriftType: TypeSymbolReferenceMissing,
		Description: fmt.Sprintf(
			"Relation %s references %s symbol %s which is not defined in current symbols.",
			relation.RelationType, role, missing,
		),
		Severity: SeverityHigh,
		Metadata: map[string]any{
			"relation":       relationMetadata(relation),
			"missing_symbol": missing,
			"role":           role,
		},
	}
}
