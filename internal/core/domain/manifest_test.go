package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/manifold/internal/core/domain"
)

func TestManifest_FeaturesAndEnvironments(t *testing.T) {
	m := domain.NewManifest("/p/manifold.toml", domain.ProjectMetadata{Name: "p"})

	cuda := m.AddFeature("cuda")
	test := m.AddFeature("test")
	assert.Same(t, cuda, m.AddFeature("cuda"))

	got, ok := m.Feature(domain.NamedFeature("test"))
	require.True(t, ok)
	assert.Same(t, test, got)

	def, ok := m.Feature(domain.FeatureName{})
	require.True(t, ok)
	assert.Same(t, m.DefaultFeature, def)

	_, ok = m.Feature(domain.NamedFeature("missing"))
	assert.False(t, ok)

	features := m.Features()
	require.Len(t, features, 2)
	assert.Equal(t, "cuda", features[0].Name.String())
	assert.Equal(t, "test", features[1].Name.String())

	m.AddEnvironment(&domain.Environment{Name: "gpu", Features: []domain.FeatureName{domain.NamedFeature("cuda")}})
	m.AddEnvironment(&domain.Environment{Name: "default"})
	m.AddEnvironment(&domain.Environment{Name: "ci", Features: []domain.FeatureName{domain.NamedFeature("test")}})

	var names []string
	for _, env := range m.Environments() {
		names = append(names, env.Name)
	}
	assert.Equal(t, []string{"default", "gpu", "ci"}, names)

	m.AddEnvironment(&domain.Environment{Name: "gpu", SolveGroup: "main"})
	env, ok := m.Environment("gpu")
	require.True(t, ok)
	assert.Equal(t, "main", env.SolveGroup)
	assert.Len(t, m.Environments(), 3)
}
