// Package project composes the effective configuration of environments from a parsed manifest.
//
// Every query is computed from the manifest on demand. Nothing is cached and nothing is
// written, so views may be queried concurrently as long as the manifest is not modified.
package project

import (
	"path/filepath"

	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/zerr"
)

// Project owns a parsed manifest and hands out Environment views over it.
type Project struct {
	root     string
	manifest *domain.Manifest
}

// New creates a project rooted at root. The manifest must not be modified afterwards.
// An environment named "default" with no named features is added when the manifest does not declare one.
func New(root string, manifest *domain.Manifest) *Project {
	if _, ok := manifest.Environment(domain.DefaultName); !ok {
		manifest.AddEnvironment(&domain.Environment{Name: domain.DefaultName})
	}
	return &Project{root: root, manifest: manifest}
}

// Root returns the directory containing the manifest.
func (p *Project) Root() string {
	return p.root
}

// Name returns the project name.
func (p *Project) Name() string {
	return p.manifest.Project.Name
}

// Manifest returns the parsed manifest.
func (p *Project) Manifest() *domain.Manifest {
	return p.manifest
}

// Features returns the named features in declaration order.
func (p *Project) Features() []*domain.Feature {
	return p.manifest.Features()
}

// Environment returns a view of the named environment.
func (p *Project) Environment(name string) (*Environment, bool) {
	env, ok := p.manifest.Environment(name)
	if !ok {
		return nil, false
	}
	return &Environment{project: p, env: env}, true
}

// LookupEnvironment is Environment with an error for unknown names.
// An empty name selects the default environment.
func (p *Project) LookupEnvironment(name string) (*Environment, error) {
	if name == "" {
		name = domain.DefaultName
	}
	env, ok := p.Environment(name)
	if !ok {
		return nil, zerr.With(domain.ErrUnknownEnvironment, "environment", name)
	}
	return env, nil
}

// DefaultEnvironment returns a view of the default environment.
func (p *Project) DefaultEnvironment() *Environment {
	env, _ := p.Environment(domain.DefaultName)
	return env
}

// Environments returns views of every environment, default first, then in declaration order.
func (p *Project) Environments() []*Environment {
	envs := p.manifest.Environments()
	out := make([]*Environment, len(envs))
	for i, env := range envs {
		out[i] = &Environment{project: p, env: env}
	}
	return out
}

// EnvironmentsDir returns the directory holding one directory per environment.
func (p *Project) EnvironmentsDir() string {
	return filepath.Join(p.root, domain.DefaultEnvsPath())
}
