package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driven"
	"github.com/custodia-labs/toonc/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyOutputDir      = "build.output_dir"
	KeyTemplatesDir   = "build.templates_dir"
	KeyKnowledgeRoot  = "build.knowledge_root"
	KeyWorkers        = "build.workers"
	KeyMinScore       = "validate.min_score"
	KeyHistoryEnabled = "history.enabled"
)

// settingKeys lists every supported key in display order.
var settingKeys = []string{
	KeyOutputDir,
	KeyTemplatesDir,
	KeyKnowledgeRoot,
	KeyWorkers,
	KeyMinScore,
	KeyHistoryEnabled,
}

// SettingsService manages compiler settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the defaults overlaid with stored values.
func (s *SettingsService) Get() (domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := domain.Settings{
		OutputDir:      s.getString(KeyOutputDir, defaults.OutputDir),
		TemplatesDir:   s.configStore.GetString(KeyTemplatesDir), // No default - empty means embedded templates
		KnowledgeRoot:  s.configStore.GetString(KeyKnowledgeRoot),
		Workers:        s.getInt(KeyWorkers, defaults.Workers),
		MinScore:       s.getFloat(KeyMinScore, defaults.MinScore),
		HistoryEnabled: s.getBool(KeyHistoryEnabled, defaults.HistoryEnabled),
	}

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("stored settings: %w", err)
	}
	return settings, nil
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		// Allow fixing a broken value.
		settings = domain.DefaultSettings()
	}

	var stored any
	switch key {
	case KeyOutputDir:
		settings.OutputDir = value
		stored = value
	case KeyTemplatesDir:
		settings.TemplatesDir = value
		stored = value
	case KeyKnowledgeRoot:
		settings.KnowledgeRoot = value
		stored = value
	case KeyWorkers:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer: %q", domain.ErrInvalidInput, key, value)
		}
		settings.Workers = n
		stored = n
	case KeyMinScore:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number: %q", domain.ErrInvalidInput, key, value)
		}
		settings.MinScore = f
		stored = f
	case KeyHistoryEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false: %q", domain.ErrInvalidInput, key, value)
		}
		settings.HistoryEnabled = b
		stored = b
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the supported setting keys.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
