package ports

import "go.trai.ch/manifold/internal/core/project"

// ConfigLoader defines the interface for loading the project manifest.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load parses and validates the manifest at path and returns the project it describes.
	// path may be the manifest file itself or the directory containing it.
	Load(path string) (*project.Project, error)

	// DiscoverManifest walks up from cwd to find the nearest manifold.toml and returns its path.
	DiscoverManifest(cwd string) (string, error)
}
