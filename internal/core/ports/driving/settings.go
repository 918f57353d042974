package driving

import "github.com/custodia-labs/toonc/internal/core/domain"

// SettingsService manages compiler settings.
type SettingsService interface {
	// Get returns the effective settings (defaults overlaid with stored values).
	Get() (domain.Settings, error)

	// Set stores one setting by key (e.g. "build.output_dir").
	Set(key, value string) error

	// Keys returns the supported setting keys.
	Keys() []string
}
