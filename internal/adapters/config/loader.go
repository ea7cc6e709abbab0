// Package config provides the manifest loader for manifold.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/manifold/internal/core/ports"
	"go.trai.ch/manifold/internal/core/project"
	"go.trai.ch/zerr"
)

// Loader implements ports.ConfigLoader using a TOML manifest.
type Loader struct {
	Logger       ports.Logger
	ChannelAlias string
}

// NewLoader creates a new Loader with the given logger.
// Bare channel names are resolved against channelAlias, or the default alias when it is empty.
func NewLoader(logger ports.Logger, channelAlias string) *Loader {
	if channelAlias == "" {
		channelAlias = domain.DefaultChannelAlias
	}
	return &Loader{Logger: logger, ChannelAlias: channelAlias}
}

// Load reads the manifest at path, which may be the manifest itself or its directory.
func (l *Loader) Load(path string) (*project.Project, error) {
	manifestPath, err := resolveManifestPath(path)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- manifestPath is provided by the user or found by discovery
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		err = zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
		return nil, zerr.With(err, "path", manifestPath)
	}

	m, err := l.Parse(manifestPath, data)
	if err != nil {
		return nil, err
	}

	return project.New(filepath.Dir(manifestPath), m), nil
}

// DiscoverManifest walks up from cwd to find the nearest manifest.
func (l *Loader) DiscoverManifest(cwd string) (string, error) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

// Parse decodes and validates manifest content. path is only used for diagnostics.
func (l *Loader) Parse(path string, data []byte) (*domain.Manifest, error) {
	var dto Manifest
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dto); err != nil {
		return nil, decodeError(path, err)
	}

	order, err := scanKeyOrder(data)
	if err != nil {
		err = zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
		return nil, zerr.With(err, "path", path)
	}

	c := &converter{alias: l.ChannelAlias, order: order}
	m, err := c.convert(path, &dto)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	if err := validate(m); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	l.warn(m)

	return m, nil
}

func resolveManifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", zerr.With(domain.ErrConfigNotFound, "path", path)
		}
		err = zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
		return "", zerr.With(err, "path", path)
	}
	if !info.IsDir() {
		return filepath.Clean(path), nil
	}

	candidate := filepath.Join(path, domain.ManifestFileName)
	if _, err := os.Stat(candidate); err != nil {
		return "", zerr.With(domain.ErrConfigNotFound, "path", path)
	}
	return candidate, nil
}

func decodeError(path string, err error) error {
	var decodeErr *toml.DecodeError
	var strictErr *toml.StrictMissingError

	switch {
	case errors.As(err, &decodeErr):
		row, col := decodeErr.Position()
		wrapped := zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
		wrapped = zerr.With(wrapped, "path", path)
		return zerr.With(wrapped, "position", fmt.Sprintf("%d:%d", row, col))
	case errors.As(err, &strictErr):
		keys := make([]string, 0, len(strictErr.Errors))
		for _, e := range strictErr.Errors {
			keys = append(keys, strings.Join(e.Key(), "."))
		}
		wrapped := zerr.With(domain.ErrConfigParseFailed, "path", path)
		return zerr.With(wrapped, "unknown_fields", strings.Join(keys, ", "))
	default:
		wrapped := zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
		return zerr.With(wrapped, "path", path)
	}
}

// validate rejects manifests the composition layer cannot handle.
func validate(m *domain.Manifest) error {
	for _, env := range m.Environments() {
		reqs := m.DefaultFeature.SystemRequirements
		for _, name := range env.Features {
			f, _ := m.Feature(name)
			merged, err := reqs.Union(f.SystemRequirements)
			if err != nil {
				return zerr.With(err, "environment", env.Name)
			}
			reqs = merged
		}
	}
	return nil
}

// warn logs suspicious but legal constructs.
func (l *Loader) warn(m *domain.Manifest) {
	if l.Logger == nil {
		return
	}

	used := make(map[string]struct{})
	groups := make(map[string]int)
	for _, env := range m.Environments() {
		for _, name := range env.Features {
			used[name.String()] = struct{}{}
		}
		if env.SolveGroup != "" {
			groups[env.SolveGroup]++
		}
	}

	for _, f := range m.Features() {
		if _, ok := used[f.Name.String()]; !ok {
			l.Logger.Warn(fmt.Sprintf("feature '%s' is not used by any environment", f.Name))
		}
	}

	for _, env := range m.Environments() {
		platforms := m.Project.Platforms
		for _, name := range env.Features {
			f, _ := m.Feature(name)
			if f.Platforms != nil {
				platforms = platforms.Intersect(f.Platforms)
			}
		}
		if m.DefaultFeature.Platforms != nil {
			platforms = platforms.Intersect(m.DefaultFeature.Platforms)
		}
		if len(platforms) == 0 {
			l.Logger.Warn(fmt.Sprintf("environment '%s' does not support any platform", env.Name))
		}
		if env.SolveGroup != "" && groups[env.SolveGroup] == 1 {
			l.Logger.Warn(fmt.Sprintf("solve-group '%s' is only used by environment '%s'", env.SolveGroup, env.Name))
			groups[env.SolveGroup] = 0
		}
	}
}
