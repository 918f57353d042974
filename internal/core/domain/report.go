package domain

// Facet weights of the equivalence score. They sum to 100.
const (
	WeightCommands     = 30.0
	WeightDependencies = 30.0
	WeightFrontmatter  = 20.0
	WeightCritical     = 10.0
	WeightEmbedded     = 10.0
)

// Facets are the five independent checks of a roundtrip validation.
type Facets struct {
	CommandsMatch              bool `json:"commands_match"`
	DependenciesMatch          bool `json:"dependencies_match"`
	FrontmatterValid           bool `json:"frontmatter_valid"`
	CriticalSectionsPresent    bool `json:"critical_sections_present"`
	EmbeddedKnowledgePreserved bool `json:"embedded_knowledge_preserved"`
}

// Score computes the weighted equivalence score in [0, 100].
func (f Facets) Score() float64 {
	score := 0.0
	for _, term := range []struct {
		ok     bool
		weight float64
	}{
		{f.CommandsMatch, WeightCommands},
		{f.DependenciesMatch, WeightDependencies},
		{f.FrontmatterValid, WeightFrontmatter},
		{f.CriticalSectionsPresent, WeightCritical},
		{f.EmbeddedKnowledgePreserved, WeightEmbedded},
	} {
		if term.ok {
			score += term.weight
		}
	}
	return score
}

// Pattern is a structural transformation observed between notations.
type Pattern struct {
	ID            string `json:"id"`
	Description   string `json:"description"`
	BeforeExample string `json:"before_example"`
	AfterExample  string `json:"after_example"`
	AppliesTo     string `json:"applies_to"`
}

// EdgeCase is a source construct that needs special handling.
type EdgeCase struct {
	ID               string `json:"id"`
	Description      string `json:"description"`
	HandlingStrategy string `json:"handling_strategy"`
}

// ValidationReport is the result of comparing an original and a compiled text.
type ValidationReport struct {
	EquivalenceScore   float64    `json:"equivalence_score"`
	Facets             Facets     `json:"facets"`
	Differences        []string   `json:"differences"`
	PatternsDiscovered []Pattern  `json:"patterns_discovered"`
	EdgeCasesFound     []EdgeCase `json:"edge_cases_found"`
}

// Passed reports whether the score reaches minScore.
func (r ValidationReport) Passed(minScore float64) bool {
	return r.EquivalenceScore >= minScore
}
