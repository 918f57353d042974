package roundtrip

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/toonc/internal/core/domain"
)

// DependencyThreshold is the share of original dependency items the
// compiled text must keep for dependencies to match.
const DependencyThreshold = 0.80

// Validate compares an original source text with its compiled output.
// It always returns a report; failed facets are explained in Differences.
func Validate(original, compiled string) domain.ValidationReport {
	var facets domain.Facets
	differences := []string{}

	facets.CommandsMatch, differences = compareCommands(original, compiled, differences)
	facets.DependenciesMatch, differences = compareDependencies(original, compiled, differences)

	ok, reason := frontmatterValid(compiled)
	facets.FrontmatterValid = ok
	if !ok {
		differences = append(differences, reason)
	}

	missing := criticalSections(original, compiled)
	facets.CriticalSectionsPresent = len(missing) == 0
	for _, m := range missing {
		differences = append(differences, "compiled output is missing "+m)
	}

	facets.EmbeddedKnowledgePreserved, differences = compareInjectRegions(original, compiled, differences)

	p := pair{original: original, compiled: compiled}
	return domain.ValidationReport{
		EquivalenceScore:   facets.Score(),
		Facets:             facets,
		Differences:        differences,
		PatternsDiscovered: discoverPatterns(p),
		EdgeCasesFound:     findEdgeCases(p),
	}
}

func compareCommands(original, compiled string, differences []string) (bool, []string) {
	orig := extractCommands(original)
	comp := extractCommands(compiled)

	var missing, extra []string
	for _, name := range sortedKeys(orig) {
		if _, ok := comp[name]; !ok {
			missing = append(missing, name)
		}
	}
	for _, name := range sortedKeys(comp) {
		if _, ok := orig[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return true, differences
	}

	if len(orig) != len(comp) {
		differences = append(differences, fmt.Sprintf("command count differs: original %d, compiled %d", len(orig), len(comp)))
	}
	if len(missing) > 0 {
		differences = append(differences, "commands missing from compiled output: "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		differences = append(differences, "commands not in original: "+strings.Join(extra, ", "))
	}
	return false, differences
}

func compareDependencies(original, compiled string, differences []string) (bool, []string) {
	ratio, missing := dependencyRatio(extractDependencies(original), extractDependencies(compiled))
	if len(missing) > 0 {
		differences = append(differences, fmt.Sprintf("dependencies preserved: %.0f%%; missing %s", ratio*100, strings.Join(missing, ", ")))
	}
	return ratio >= DependencyThreshold, differences
}

// compareInjectRegions requires every inject start marker path of the
// original to appear as a start marker in the compiled text.
func compareInjectRegions(original, compiled string, differences []string) (bool, []string) {
	paths := injectPaths(original)
	if len(paths) == 0 {
		return true, differences
	}
	kept := make(map[string]bool)
	for _, p := range injectPaths(compiled) {
		kept[p] = true
	}
	ok := true
	for _, p := range paths {
		if !kept[p] {
			ok = false
			differences = append(differences, "embedded knowledge region missing: "+p)
		}
	}
	return ok, differences
}
