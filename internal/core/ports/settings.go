package ports

import "go.trai.ch/manifold/internal/core/domain"

// SettingsLoader defines the interface for reading user settings.
//
//go:generate mockgen -source=settings.go -destination=mocks/mock_settings.go -package=mocks
type SettingsLoader interface {
	// Load reads the user settings, falling back to defaults for anything unset.
	Load() (domain.Settings, error)
}
