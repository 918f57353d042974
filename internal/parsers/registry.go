package parsers

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driven"
	"github.com/custodia-labs/toonc/internal/logger"
	"github.com/custodia-labs/toonc/internal/parsers/frontmatter"
	"github.com/custodia-labs/toonc/internal/parsers/toon"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry maps file extensions to parsers.
// Paths with an unregistered extension fall back to the fallback parser.
type Registry struct {
	mu       sync.RWMutex
	parsers  map[string]driven.Parser
	fallback driven.Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{
		parsers: make(map[string]driven.Parser),
	}
}

// DefaultRegistry returns a registry with the TOON and frontmatter parsers.
// TOON is the fallback for unknown extensions.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(toon.New())
	r.Register(frontmatter.New())
	r.SetFallback(toon.New())
	return r
}

// Register adds a parser for each extension it declares.
// A later registration for the same extension replaces the earlier one.
func (r *Registry) Register(parser driven.Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range parser.Extensions() {
		r.parsers[normaliseExt(ext)] = parser
	}
}

// SetFallback sets the parser used for unregistered extensions.
func (r *Registry) SetFallback(parser driven.Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = parser
}

// ForPath returns the parser for path based on its extension.
// Returns domain.ErrUnsupportedFormat when neither a matching parser nor a
// fallback is available.
func (r *Registry) ForPath(path string) (driven.Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := normaliseExt(filepath.Ext(path))
	if p, ok := r.parsers[ext]; ok {
		return p, nil
	}
	if r.fallback != nil {
		logger.Warn("no parser registered for %q, using %s", ext, r.fallback.Name())
		return r.fallback, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
}

// Has returns true if a parser is registered for the extension.
func (r *Registry) Has(ext string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.parsers[normaliseExt(ext)]
	return ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normaliseExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
