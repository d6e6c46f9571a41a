package driving

import "github.com/custodia-labs/ragqa/internal/core/domain"

// SettingsService resolves pipeline configuration.
type SettingsService interface {
	// Get returns the effective configuration: stored values over defaults,
	// with API keys taken from the environment. It does not validate.
	Get() (domain.PipelineConfig, error)

	// Set parses and stores a single dot-separated key.
	Set(key, value string) error

	// Keys returns the recognised configuration keys.
	Keys() []string

	// Value returns the effective value of key formatted as a string.
	Value(key string) (string, error)
}
