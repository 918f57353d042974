package toon

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/custodia-labs/toonc/internal/core/domain"
)

var (
	versionPattern = regexp.MustCompile(`\(TOON v(\d+\.\d+)\)`)
	headerPattern  = regexp.MustCompile(`^#\s+((?:[A-Z0-9][A-Z0-9_'&/-]*\s+)*)AGENT\b.*\(TOON v(\d+\.\d+)\)`)
	commentPattern = regexp.MustCompile(`^#\s+(.+)$`)
	rolePattern    = regexp.MustCompile(`^(.+?)\s*\|\s*(\S+)$`)
)

var titleCaser = cases.Title(language.Und)

// detectVersion finds "(TOON vX.Y)" anywhere in the raw text.
func detectVersion(text string) string {
	if m := versionPattern.FindStringSubmatch(text); m != nil {
		return "v" + m[1]
	}
	return domain.UnknownVersion
}

// detectKind searches for AGENT, COMMAND, SKILL in that order.
func detectKind(text string) domain.Kind {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "AGENT"):
		return domain.KindAgent
	case strings.Contains(upper, "COMMAND"):
		return domain.KindCommand
	case strings.Contains(upper, "SKILL"):
		return domain.KindSkill
	default:
		return domain.KindAgent
	}
}

// extractMetadata reads the header, the description comment and the ID
// section. Only comment lines above the first section are considered.
func extractMetadata(raw []string, sections *domain.Sections) domain.Metadata {
	var meta domain.Metadata

	header := -1
	for i, line := range raw {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "##") {
			break
		}
		if m := headerPattern.FindStringSubmatch(trimmed); m != nil {
			meta.Name = titleCaser.String(strings.Join(strings.Fields(m[1]), " "))
			meta.Version = m[2]
			header = i
			break
		}
	}

	for i, line := range raw {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "##") {
			break
		}
		if i == header || strings.Contains(trimmed, "TOON v") || strings.Contains(trimmed, "AGENT") {
			continue
		}
		if m := commentPattern.FindStringSubmatch(trimmed); m != nil {
			meta.Description = strings.TrimSpace(m[1])
			break
		}
	}

	content, ok := sections.Get("id")
	if !ok {
		return meta
	}
	fields := domain.FieldsOf(content)
	meta.Role = stringField(fields, "role")
	meta.Spec = stringField(fields, "spec")
	meta.Model = stringField(fields, "model")

	if m := rolePattern.FindStringSubmatch(meta.Role); m != nil {
		meta.ID = m[2]
		if meta.Name == "" {
			meta.Name = strings.TrimSpace(m[1])
		}
	}
	return meta
}

func stringField(fields *domain.Fields, key string) string {
	v, ok := fields.Get(key)
	if !ok {
		return ""
	}
	return v.String()
}

// resolveID picks the document id: metadata id, then the ID section's
// "id" key, then a slug of the name.
func resolveID(meta domain.Metadata, sections *domain.Sections) string {
	if meta.ID != "" {
		return meta.ID
	}
	if content, ok := sections.Get("id"); ok {
		if m, isMap := content.(domain.MapContent); isMap {
			if id := stringField(m.Fields, "id"); id != "" {
				return id
			}
		}
	}
	if meta.Name != "" {
		return Slug(meta.Name)
	}
	return ""
}

// Slug lower-cases a name and replaces spaces with hyphens.
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
