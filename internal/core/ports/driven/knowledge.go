package driven

// KnowledgeLoader reads embedded-knowledge files declared by a document.
type KnowledgeLoader interface {
	// Load returns the file content for a declared knowledge path.
	// Relative paths resolve against root.
	Load(root, path string) (string, error)
}
