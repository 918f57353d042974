package toon

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/toonc/internal/core/domain"
)

// itemsKey collects dash lines that follow no bare key.
const itemsKey = "items"

var sectionHeader = regexp.MustCompile(`^##([^#].*)$`)

type rawSection struct {
	name  string
	lines []string
}

// splitSections groups preprocessed lines under their "##" header.
// Lines before the first header belong to no section and are dropped.
// A repeated header continues the earlier section.
func splitSections(lines []string) []rawSection {
	var out []rawSection
	index := make(map[string]int)
	current := -1

	for _, line := range lines {
		if m := sectionHeader.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			name := strings.ToLower(strings.TrimSpace(m[1]))
			if i, seen := index[name]; seen {
				current = i
				continue
			}
			index[name] = len(out)
			current = len(out)
			out = append(out, rawSection{name: name})
			continue
		}
		if current < 0 {
			continue
		}
		out[current].lines = append(out[current].lines, line)
	}
	return out
}

func classifySections(raw []rawSection) *domain.Sections {
	sections := domain.NewSections()
	for _, s := range raw {
		sections.Set(s.name, classify(s.lines))
	}
	return sections
}

type lineShape int

const (
	shapeText lineShape = iota
	shapeDash
	shapeKeyValue
)

func shapeOf(trimmed string) lineShape {
	switch {
	case strings.HasPrefix(trimmed, "-"):
		return shapeDash
	case strings.Contains(trimmed, ":"):
		return shapeKeyValue
	default:
		return shapeText
	}
}

// classify picks the section variant from the unmodified line set.
func classify(lines []string) domain.SectionContent {
	trimmed := make([]string, len(lines))
	hasLists, hasKeyValues := false, false
	for i, line := range lines {
		trimmed[i] = strings.TrimSpace(line)
		switch shapeOf(trimmed[i]) {
		case shapeDash:
			hasLists = true
		case shapeKeyValue:
			hasKeyValues = true
		}
	}

	switch domain.ShapeFor(hasLists, hasKeyValues) {
	case domain.ShapeList:
		return domain.ListContent{Items: listItems(trimmed)}
	case domain.ShapeMap:
		return domain.MapContent{Fields: keyValues(trimmed)}
	case domain.ShapeMixed:
		return domain.MixedContent{Fields: keyValues(trimmed)}
	default:
		return domain.TextContent{Text: strings.TrimSpace(strings.Join(trimmed, "\n"))}
	}
}

func dashItem(trimmed string) string {
	return strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
}

// listItems reads dash lines as items. A plain line continues the previous item.
func listItems(lines []string) []string {
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		if shapeOf(line) == shapeDash {
			items = append(items, dashItem(line))
			continue
		}
		if len(items) == 0 {
			items = append(items, line)
			continue
		}
		items[len(items)-1] += " " + line
	}
	return items
}

func splitKeyValue(line string) (string, string) {
	key, value, _ := strings.Cut(line, ":")
	return strings.TrimSpace(key), strings.TrimSpace(value)
}

// keyValues reads colon lines as ordered fields.
//
// Dash lines right after a bare "key:" become that key's list; dash lines
// with no bare key before them go under "items". A plain line continues
// the value it follows.
func keyValues(lines []string) *domain.Fields {
	fields := domain.NewFields()
	pending := ""
	last := ""

	for _, line := range lines {
		switch shapeOf(line) {
		case shapeDash:
			target := pending
			if target == "" {
				target = itemsKey
			}
			fields.Append(target, dashItem(line))
			last = target
		case shapeKeyValue:
			key, value := splitKeyValue(line)
			if key == "" {
				appendText(fields, last, line)
				continue
			}
			fields.Set(key, domain.Scalar(value))
			if value == "" {
				pending, last = key, key
			} else {
				pending, last = "", key
			}
		default:
			last = appendText(fields, last, line)
		}
	}
	return fields
}

// appendText joins a continuation line onto the value under key: a new
// line for scalars, the last item for lists. It returns the key the text
// landed on.
func appendText(fields *domain.Fields, key, line string) string {
	if key == "" {
		fields.Append(itemsKey, line)
		return itemsKey
	}
	current, _ := fields.Get(key)
	if current.IsList() {
		items := append([]string(nil), current.Items()...)
		items[len(items)-1] += " " + line
		fields.Set(key, domain.List(items...))
		return key
	}
	text := current.String()
	if text == "" {
		text = line
	} else {
		text += "\n" + line
	}
	fields.Set(key, domain.Scalar(text))
	return key
}
