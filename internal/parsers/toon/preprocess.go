package toon

import "strings"

// preprocess removes comments and blank lines.
//
// A line whose trimmed form starts with a single "#" is a standalone comment
// and is dropped. Section headers ("##...") keep their leading hashes and
// lose only a trailing "#" comment. Any other line is cut at its first "#".
func preprocess(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		stripped := stripComment(line)
		if strings.TrimSpace(stripped) == "" {
			continue
		}
		out = append(out, stripped)
	}
	return out
}

func stripComment(line string) string {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		return strings.TrimRight(line, " \t")
	}
	if !strings.HasPrefix(trimmed, "##") {
		return ""
	}

	rest := strings.TrimLeft(trimmed, "#")
	hashes := trimmed[:len(trimmed)-len(rest)]
	if i := strings.Index(rest, "#"); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimRight(hashes+rest, " \t")
}
