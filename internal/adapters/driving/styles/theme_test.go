package styles

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)
	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestPlain_RendersUnchanged(t *testing.T) {
	s := Plain()
	assert.Equal(t, "ok", s.Success.Render("ok"))
	assert.Equal(t, "warn", s.Warning.Render("warn"))
	assert.Equal(t, "title", s.Title.Render("title"))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(new(bytes.Buffer)))

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}

func TestFor_NonTerminalIsPlain(t *testing.T) {
	s := For(new(bytes.Buffer))
	assert.Equal(t, "text", s.Error.Render("text"))
}
