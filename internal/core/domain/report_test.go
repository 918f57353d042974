package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFacets_Score(t *testing.T) {
	all := Facets{
		CommandsMatch:              true,
		DependenciesMatch:          true,
		FrontmatterValid:           true,
		CriticalSectionsPresent:    true,
		EmbeddedKnowledgePreserved: true,
	}
	assert.Equal(t, 100.0, all.Score())

	noDeps := all
	noDeps.DependenciesMatch = false
	assert.Equal(t, 70.0, noDeps.Score())

	assert.Equal(t, 0.0, Facets{}.Score())
	assert.Equal(t, 30.0, Facets{CommandsMatch: true}.Score())
}

func TestValidationReport_Passed(t *testing.T) {
	r := ValidationReport{EquivalenceScore: 90}
	assert.True(t, r.Passed(90))
	assert.False(t, r.Passed(90.5))
}
