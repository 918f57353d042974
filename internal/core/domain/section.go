package domain

import "strings"

// Shape identifies which SectionContent variant a section holds.
type Shape int

const (
	// ShapeText is free text matching neither list nor map shape.
	ShapeText Shape = iota

	// ShapeList is a body made only of dash lines.
	ShapeList

	// ShapeMap is a body made only of colon lines.
	ShapeMap

	// ShapeMixed is a body with both colon lines and dash lines.
	ShapeMixed
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeMap:
		return "map"
	case ShapeMixed:
		return "mixed"
	default:
		return "text"
	}
}

// ShapeFor maps the two line-shape flags to the single matching variant.
func ShapeFor(hasLists, hasKeyValues bool) Shape {
	switch {
	case hasLists && hasKeyValues:
		return ShapeMixed
	case hasLists:
		return ShapeList
	case hasKeyValues:
		return ShapeMap
	default:
		return ShapeText
	}
}

// SectionContent is the classified body of a section. The set of
// implementations is closed: ListContent, MapContent, MixedContent, TextContent.
type SectionContent interface {
	Shape() Shape
	sectionContent()
}

// ListContent is an ordered list of items.
type ListContent struct {
	Items []string
}

// MapContent is an ordered key/value body.
type MapContent struct {
	Fields *Fields
}

// MixedContent is a key/value body where some values are nested lists.
type MixedContent struct {
	Fields *Fields
}

// TextContent is a free-text body.
type TextContent struct {
	Text string
}

func (ListContent) Shape() Shape  { return ShapeList }
func (MapContent) Shape() Shape   { return ShapeMap }
func (MixedContent) Shape() Shape { return ShapeMixed }
func (TextContent) Shape() Shape  { return ShapeText }

func (ListContent) sectionContent()  {}
func (MapContent) sectionContent()   {}
func (MixedContent) sectionContent() {}
func (TextContent) sectionContent()  {}

// FieldsOf returns the key/value fields of a Map or Mixed section, or nil.
func FieldsOf(content SectionContent) *Fields {
	switch c := content.(type) {
	case MapContent:
		return c.Fields
	case MixedContent:
		return c.Fields
	default:
		return nil
	}
}

// Value is either a scalar string or a list of strings.
type Value struct {
	text   string
	items  []string
	isList bool
}

// Scalar creates a string value.
func Scalar(s string) Value {
	return Value{text: s}
}

// List creates a list value.
func List(items ...string) Value {
	out := make([]string, len(items))
	copy(out, items)
	return Value{items: out, isList: true}
}

// IsList reports whether the value holds a list.
func (v Value) IsList() bool {
	return v.isList
}

// Items returns the list items, or the scalar as a one-item list when non-empty.
func (v Value) Items() []string {
	if v.isList {
		return v.items
	}
	if v.text == "" {
		return nil
	}
	return []string{v.text}
}

// String returns the scalar text, or the list items joined by ", ".
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.items, ", ")
	}
	return v.text
}

// Interface returns the value as a string or []string for templates and JSON.
func (v Value) Interface() any {
	if v.isList {
		return v.items
	}
	return v.text
}

// Fields is an insertion-ordered map of values.
type Fields struct {
	keys   []string
	values map[string]Value
}

// NewFields creates an empty ordered field map.
func NewFields() *Fields {
	return &Fields{values: make(map[string]Value)}
}

// Set stores a value. Re-setting a key keeps its original position.
func (f *Fields) Set(key string, value Value) {
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Append adds an item to the list under key, creating the list when needed.
// A scalar already stored under key becomes the first list item.
func (f *Fields) Append(key, item string) {
	current, exists := f.values[key]
	if !exists {
		f.Set(key, List(item))
		return
	}
	items := current.Items()
	items = append(append(make([]string, 0, len(items)+1), items...), item)
	f.values[key] = List(items...)
}

// Get returns the value stored under key.
func (f *Fields) Get(key string) (Value, bool) {
	if f == nil {
		return Value{}, false
	}
	v, ok := f.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.keys...)
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Map returns a plain map view (string or []string values).
func (f *Fields) Map() map[string]any {
	out := make(map[string]any, f.Len())
	for _, key := range f.Keys() {
		out[key] = f.values[key].Interface()
	}
	return out
}

// Sections is an insertion-ordered map of section contents.
type Sections struct {
	names   []string
	content map[string]SectionContent
}

// NewSections creates an empty ordered section map.
func NewSections() *Sections {
	return &Sections{content: make(map[string]SectionContent)}
}

// Set stores a section. Re-setting a name keeps its original position.
func (s *Sections) Set(name string, content SectionContent) {
	if _, exists := s.content[name]; !exists {
		s.names = append(s.names, name)
	}
	s.content[name] = content
}

// Get returns the named section.
func (s *Sections) Get(name string) (SectionContent, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.content[name]
	return c, ok
}

// Names returns the section names in insertion order.
func (s *Sections) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// Len returns the number of sections.
func (s *Sections) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}
