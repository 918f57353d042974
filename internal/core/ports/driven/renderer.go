package driven

// TemplateRenderer renders named templates. It is the template engine collaborator.
type TemplateRenderer interface {
	// Render executes the named template with the context.
	// Returns domain.ErrTemplateNotFound when no template has that name.
	Render(name string, context map[string]any) (string, error)

	// Has reports whether a template with that name exists.
	Has(name string) bool
}

// TemplateReloader is implemented by renderers that cache templates.
// Reload drops the cache so edited templates take effect.
type TemplateReloader interface {
	Reload()
}
