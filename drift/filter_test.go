package drift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFindings() []Finding {
	return []Finding{
		{DriftType: TypeAPIRemoved, Description: "endpoint gone", Severity: SeverityHigh},
		{DriftType: TypeDependencyAdded, Description: "dep added", Severity: SeverityLow},
		{DriftType: TypeAPIPathChanged, Description: "path changed", Severity: SeverityMedium},
	}
}

func TestFilterFindingsBySeverity(t *testing.T) {
	kept, err := FilterFindings(sampleFindings(), `severity == "HIGH"`)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, TypeAPIRemoved, kept[0].DriftType)
}

func TestFilterFindingsByType(t *testing.T) {
	kept, err := FilterFindings(sampleFindings(), `drift_type startsWith "API_"`)
	require.NoError(t, err)
	assert.Len(t, kept, 2)
}

func TestFilterFindingsEmptyExpressionKeepsAll(t *testing.T) {
	findings := sampleFindings()
	kept, err := FilterFindings(findings, "")
	require.NoError(t, err)
	assert.Equal(t, findings, kept)
}

func TestFilterFindingsInvalidExpression(t *testing.T) {
	_, err := FilterFindings(sampleFindings(), `severity ==`)
	assert.Error(t, err)
}

func TestCompileFilterRejectsNonBoolean(t *testing.T) {
	_, err := CompileFilter(`severity`)
	assert.Error(t, err)
}
