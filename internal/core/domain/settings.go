package domain

import "fmt"

// Default settings values.
const (
	DefaultOutputDir = "dist/agents"
	DefaultMinScore  = 90.0
	DefaultWorkers   = 4
)

// Settings is the compiler configuration.
type Settings struct {
	// OutputDir is where compiled artifacts are written.
	OutputDir string

	// TemplatesDir overrides the embedded templates file-by-file. Empty uses embedded only.
	TemplatesDir string

	// KnowledgeRoot resolves embed_knowledge paths. Empty uses each source file's directory.
	KnowledgeRoot string

	// MinScore is the equivalence score a validation must reach to pass.
	MinScore float64

	// Workers bounds batch build concurrency.
	Workers int

	// HistoryEnabled records each compile in the build store.
	HistoryEnabled bool
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		OutputDir:      DefaultOutputDir,
		MinScore:       DefaultMinScore,
		Workers:        DefaultWorkers,
		HistoryEnabled: true,
	}
}

// Validate checks the settings for out-of-range values.
func (s Settings) Validate() error {
	if s.OutputDir == "" {
		return fmt.Errorf("%w: output dir is empty", ErrInvalidInput)
	}
	if s.MinScore < 0 || s.MinScore > 100 {
		return fmt.Errorf("%w: min score %.1f outside [0, 100]", ErrInvalidInput, s.MinScore)
	}
	if s.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidInput)
	}
	return nil
}
