package domain

import "slices"

// ProjectMetadata is the [project] table of the manifest.
type ProjectMetadata struct {
	Name          string
	Version       string
	Description   string
	Authors       []string
	License       string
	Homepage      string
	Repository    string
	Documentation string
	Channels      []PrioritizedChannel
	Platforms     PlatformSet
}

// Environment is a named, ordered list of named features.
// The default feature is never listed, it is implied last.
type Environment struct {
	Name       string
	Features   []FeatureName
	SolveGroup string
}

// Manifest is the parsed, validated and immutable project manifest.
type Manifest struct {
	Path           string
	Project        ProjectMetadata
	DefaultFeature *Feature

	features     []*Feature
	featureIndex map[string]*Feature
	environments []*Environment
	envIndex     map[string]*Environment
}

// NewManifest creates a manifest with an empty default feature.
func NewManifest(path string, project ProjectMetadata) *Manifest {
	return &Manifest{
		Path:           path,
		Project:        project,
		DefaultFeature: NewFeature(FeatureName{}),
		featureIndex:   make(map[string]*Feature),
		envIndex:       make(map[string]*Environment),
	}
}

// AddFeature registers a named feature, or returns the one already registered under that name.
func (m *Manifest) AddFeature(name string) *Feature {
	if f, ok := m.featureIndex[name]; ok {
		return f
	}
	f := NewFeature(NamedFeature(name))
	m.features = append(m.features, f)
	m.featureIndex[name] = f
	return f
}

// AddEnvironment registers an environment. A later environment with the same name replaces the earlier one.
func (m *Manifest) AddEnvironment(env *Environment) {
	if existing, ok := m.envIndex[env.Name]; ok {
		*existing = *env
		return
	}
	m.environments = append(m.environments, env)
	m.envIndex[env.Name] = env
}

// Feature returns the feature with the given name. The default feature is always found.
func (m *Manifest) Feature(name FeatureName) (*Feature, bool) {
	if name.IsDefault() {
		return m.DefaultFeature, true
	}
	f, ok := m.featureIndex[name.String()]
	return f, ok
}

// Features returns the named features in declaration order.
func (m *Manifest) Features() []*Feature {
	return slices.Clone(m.features)
}

// Environment returns the environment with the given name.
func (m *Manifest) Environment(name string) (*Environment, bool) {
	env, ok := m.envIndex[name]
	return env, ok
}

// Environments returns the environments, default first, then in declaration order.
func (m *Manifest) Environments() []*Environment {
	out := make([]*Environment, 0, len(m.environments))
	if env, ok := m.envIndex[DefaultName]; ok {
		out = append(out, env)
	}
	for _, env := range m.environments {
		if env.Name != DefaultName {
			out = append(out, env)
		}
	}
	return out
}
