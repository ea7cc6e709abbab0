package domain

import "path/filepath"

const (
	// ManifoldDirName is the name of the internal workspace directory.
	ManifoldDirName = ".manifold"

	// EnvsDirName is the name of the directory holding one directory per environment.
	EnvsDirName = "envs"

	// ManifestFileName is the name of the project manifest.
	ManifestFileName = "manifold.toml"

	// IntentFileName is the name of the persisted intent snapshot inside an environment directory.
	IntentFileName = "intent.json"

	// SettingsFileName is the name of the user settings file inside the user's manifold directory.
	SettingsFileName = "config.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultEnvsPath returns the default path of the environments directory.
// It joins .manifold and envs.
func DefaultEnvsPath() string {
	return filepath.Join(ManifoldDirName, EnvsDirName)
}

// DefaultSettingsPath returns the user settings path relative to the home directory.
// It joins .manifold and config.yaml.
func DefaultSettingsPath() string {
	return filepath.Join(ManifoldDirName, SettingsFileName)
}
