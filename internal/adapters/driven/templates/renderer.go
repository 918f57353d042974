package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driven"
	"github.com/custodia-labs/toonc/internal/logger"
)

//go:embed defaults/*.md.j2
var defaults embed.FS

// Ensure Renderer implements the interfaces.
var (
	_ driven.TemplateRenderer = (*Renderer)(nil)
	_ driven.TemplateReloader = (*Renderer)(nil)
)

// Renderer renders named templates from an override directory with
// fallback to the embedded defaults. Parsed templates are cached.
type Renderer struct {
	mu    sync.RWMutex
	dir   string
	cache map[string]*template.Template
}

// NewRenderer creates a renderer. An empty dir uses the embedded templates only.
func NewRenderer(dir string) *Renderer {
	return &Renderer{
		dir:   dir,
		cache: make(map[string]*template.Template),
	}
}

// Has reports whether a template with that name exists.
func (r *Renderer) Has(name string) bool {
	_, _, err := r.source(name)
	return err == nil
}

// Render executes the named template with the context.
func (r *Renderer) Render(name string, context map[string]any) (string, error) {
	tmpl, err := r.load(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, context); err != nil {
		return "", fmt.Errorf("execute template %q: %w", name, err)
	}
	return buf.String(), nil
}

// Reload clears the template cache, forcing fresh loads from disk.
func (r *Renderer) Reload() {
	r.mu.Lock()
	r.cache = make(map[string]*template.Template)
	r.mu.Unlock()
}

func (r *Renderer) load(name string) (*template.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.cache[name]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	text, origin, err := r.source(name)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded template %s from %s", name, origin)

	tmpl, err := template.New(name).Funcs(funcs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", name, err)
	}

	r.mu.Lock()
	if cached, ok := r.cache[name]; ok {
		tmpl = cached
	} else {
		r.cache[name] = tmpl
	}
	r.mu.Unlock()
	return tmpl, nil
}

// source returns the template text and where it came from.
func (r *Renderer) source(name string) (string, string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", "", fmt.Errorf("%w: %q", domain.ErrTemplateNotFound, name)
	}

	if r.dir != "" {
		path := filepath.Join(r.dir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", "", fmt.Errorf("read template %q: %w", path, err)
		}
	}

	data, err := defaults.ReadFile("defaults/" + name)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", domain.ErrTemplateNotFound, name)
	}
	return string(data), "embedded defaults", nil
}

var funcs = template.FuncMap{
	"quote": strconv.Quote,
	"chomp": func(s string) string { return strings.TrimRight(s, "\n") },
	"lower": strings.ToLower,
	"join":  strings.Join,
	"indent": func(n int, s string) string {
		pad := strings.Repeat(" ", n)
		return pad + strings.ReplaceAll(s, "\n", "\n"+pad)
	},
}
