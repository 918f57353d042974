package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeFor(t *testing.T) {
	tests := []struct {
		name         string
		hasLists     bool
		hasKeyValues bool
		expected     Shape
	}{
		{"neither", false, false, ShapeText},
		{"lists only", true, false, ShapeList},
		{"key values only", false, true, ShapeMap},
		{"both", true, true, ShapeMixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShapeFor(tt.hasLists, tt.hasKeyValues))
		})
	}
}

func TestSectionContent_Shape(t *testing.T) {
	assert.Equal(t, ShapeList, ListContent{}.Shape())
	assert.Equal(t, ShapeMap, MapContent{}.Shape())
	assert.Equal(t, ShapeMixed, MixedContent{}.Shape())
	assert.Equal(t, ShapeText, TextContent{}.Shape())
	assert.Equal(t, "mixed", ShapeMixed.String())
}

func TestValue(t *testing.T) {
	t.Run("scalar", func(t *testing.T) {
		v := Scalar("hello")
		assert.False(t, v.IsList())
		assert.Equal(t, "hello", v.String())
		assert.Equal(t, []string{"hello"}, v.Items())
		assert.Equal(t, "hello", v.Interface())
	})

	t.Run("empty scalar has no items", func(t *testing.T) {
		assert.Nil(t, Scalar("").Items())
	})

	t.Run("list", func(t *testing.T) {
		v := List("a", "b")
		assert.True(t, v.IsList())
		assert.Equal(t, "a, b", v.String())
		assert.Equal(t, []string{"a", "b"}, v.Interface())
	})

	t.Run("list copies its input", func(t *testing.T) {
		items := []string{"a"}
		v := List(items...)
		items[0] = "changed"
		assert.Equal(t, []string{"a"}, v.Items())
	})
}

func TestFields_Order(t *testing.T) {
	f := NewFields()
	f.Set("zeta", Scalar("1"))
	f.Set("alpha", Scalar("2"))
	f.Set("zeta", Scalar("3"))

	assert.Equal(t, []string{"zeta", "alpha"}, f.Keys())
	v, ok := f.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, "3", v.String())
	assert.Equal(t, 2, f.Len())
}

func TestFields_Append(t *testing.T) {
	f := NewFields()
	f.Append("items", "one")
	f.Append("items", "two")
	f.Set("notes", Scalar("first"))
	f.Append("notes", "second")

	items, _ := f.Get("items")
	assert.Equal(t, []string{"one", "two"}, items.Items())

	notes, _ := f.Get("notes")
	assert.True(t, notes.IsList())
	assert.Equal(t, []string{"first", "second"}, notes.Items())
	assert.Equal(t, []string{"items", "notes"}, f.Keys())
}

func TestFields_NilSafe(t *testing.T) {
	var f *Fields
	_, ok := f.Get("x")
	assert.False(t, ok)
	assert.Nil(t, f.Keys())
	assert.Equal(t, 0, f.Len())
}

func TestFieldsOf(t *testing.T) {
	f := NewFields()
	assert.Same(t, f, FieldsOf(MapContent{Fields: f}))
	assert.Same(t, f, FieldsOf(MixedContent{Fields: f}))
	assert.Nil(t, FieldsOf(ListContent{}))
	assert.Nil(t, FieldsOf(TextContent{}))
}

func TestSections(t *testing.T) {
	s := NewSections()
	s.Set("id", MapContent{Fields: NewFields()})
	s.Set("commands", ListContent{Items: []string{"help"}})
	s.Set("id", TextContent{Text: "replaced"})

	assert.Equal(t, []string{"id", "commands"}, s.Names())
	got, ok := s.Get("id")
	require.True(t, ok)
	assert.Equal(t, ShapeText, got.Shape())
	assert.Equal(t, 2, s.Len())
}
