package drift

import (
	"fmt"
	"strings"

	"github.com/livingdoc/analysis-core/artifact"
)

// EndpointRemovedRule reports endpoints whose handler identity exists in
// the baseline but not in the current snapshot.
type EndpointRemovedRule struct{}

func (r *EndpointRemovedRule) Evaluate(baseline, current artifact.Artifacts) []Finding {
	var findings []Finding
	baselineIndex := buildHandlerIndex(baseline.APIEndpoints)
	currentIndex := buildHandlerIndex(current.APIEndpoints)
	for _, id := range baselineIndex.order {
		if currentIndex.contains(id) {
			continue
		}
		endpoint := baselineIndex.byID[id]
		findings = append(findings, Finding{
			DriftType: TypeAPIRemoved,
			Description: fmt.Sprintf(
				"Endpoint %s %s is not present in the current artifacts.",
				strings.ToUpper(endpoint.HTTPMethod), endpoint.Path,
			),
			Severity: SeverityHigh,
			Metadata: map[string]any{
				"baseline_endpoint": endpointMetadata(endpoint),
				"handler_identity":  identityMetadata(id),
			},
		})
	}
	return findings
}

// EndpointPathChangedRule reports endpoints whose handler identity is
// present in both snapshots but whose path differs.
type EndpointPathChangedRule struct{}

func (r *EndpointPathChangedRule) Evaluate(baseline, current artifact.Artifacts) []Finding {
	var findings []Finding
	baselineIndex := buildHandlerIndex(baseline.APIEndpoints)
	currentIndex := buildHandlerIndex(current.APIEndpoints)
	for _, id := range baselineIndex.order {
		currentEndpoint, ok := currentIndex.byID[id]
		if !ok {
			continue
		}
		baselineEndpoint := baselineIndex.byID[id]
		if baselineEndpoint.Path == currentEndpoint.Path {
			continue
		}
		findings = append(findings, Finding{
			DriftType: TypeAPIPathChanged,
			Description: fmt.Sprintf(
				"Endpoint path changed from %s %s to %s %s.",
				strings.ToUpper(baselineEndpoint.HTTPMethod), baselineEndpoint.Path,
				strings.ToUpper(currentEndpoint.HTTPMethod), currentEndpoint.Path,
			),
			Severity: SeverityMedium,
			Metadata: map[string]any{
				"baseline_endpoint": endpointMetadata(baselineEndpoint),
				"current_endpoint":  endpointMetadata(currentEndpoint),
				"handler_identity":  identityMetadata(id),
			},
		})
	}
	return findings
}

// EndpointMethodChangedRule reports endpoints whose handler identity is
// present in both snapshots but whose HTTP method differs (compared
// uppercase).
type EndpointMethodChangedRule struct{}

func (r *EndpointMethodChangedRule) Evaluate(baseline, current artifact.Artifacts) []Finding {
	var findings []Finding
	baselineIndex := buildHandlerIndex(baseline.APIEndpoints)
	currentIndex := buildHandlerIndex(current.APIEndpoints)
	for _, id := range baselineIndex.order {
		currentEndpoint, ok := currentIndex.byID[id]
		if !ok {
			continue
		}
		baselineEndpoint := baselineIndex.byID[id]
		baselineMethod := strings.ToUpper(baselineEndpoint.HTTPMethod)
		currentMethod := strings.ToUpper(currentEndpoint.HTTPMethod)
		if baselineMethod == currentMethod {
			continue
		}
		findings = append(findings, Finding{
			DriftType: TypeAPIMethodChanged,
			Description: fmt.Sprintf(
				"Endpoint %s changed method from %s to %s.",
				baselineEndpoint.Path, baselineMethod, currentMethod,
			),
			Severity: SeverityMedium,
			Metadata: map[string]any{
				"baseline_endpoint": endpointMetadata(baselineEndpoint),
				"current_endpoint":  endpointMetadata(currentEndpoint),
				"handler_identity":  identityMetadata(id),
			},
		})
	}
	return findings
}
