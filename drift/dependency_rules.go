package drift

import (
	"fmt"

	"github.com/livingdoc/analysis-core/artifact"
)

// DependencyAddedRule reports import/depends relations present in the
// current snapshot but not in the baseline.
type DependencyAddedRule struct{}

func (r *DependencyAddedRule) Evaluate(baseline, current artifact.Artifacts) []Finding {
	var findings []Finding
	baselineSet := buildDependencySet(baseline.Relations)
	currentSet := buildDependencySet(current.Relations)
	currentIndex := indexDependencies(current.Relations)
	for _, id := range sortedDependencyDiff(currentSet, baselineSet) {
		relation, ok := currentIndex[id]
		if !ok {
			continue
		}
		findings = append(findings, Finding{
			DriftType: TypeDependencyAdded,
			Description: fmt.Sprintf(
				"Dependency %s from %s to %s added.",
				id.relationType, id.source, id.target,
			),
			Severity: SeverityLow,
			Metadata: map[string]any{
				"dependency": []string{id.language, id.relationType, id.source, id.target},
				"relation":   relationMetadata(relation),
			},
		})
	}
	return findings
}

// DependencyRemovedRule reports import/depends relations present in the
// baseline but not in the current snapshot.
type DependencyRemovedRule struct{}

func (r *DependencyRemovedRule) Evaluate(baseline, current artifact.Artifacts) []Finding {
	var findings []Finding
	baselineSet := buildDependencySet(baseline.Relations)
	currentSet := buildDependencySet(current.Relations)
	baselineIndex := indexDependencies(baseline.Relations)
	for _, id := range sortedDependencyDiff(baselineSet, currentSet) {
		relation, ok := baselineIndex[id]
		if !ok {
			continue
		}
		findings = append(findings, Finding{
			DriftType: TypeDependencyRemoved,
			Description: fmt.Sprintf(
				"Dependency %s from %s to %s removed.",
				id.relationType, id.source, id.target,
			),
			Severity: SeverityMedium,
			Metadata: map[string]any{
				"dependency": []string{id.language, id.relationType, id.source, id.target},
				"relation":   relationMetadata(relation),
			},
		})
	}
	return findings
}
