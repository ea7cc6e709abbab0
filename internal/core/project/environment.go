package project

import (
	"cmp"
	"maps"
	"path/filepath"
	"slices"

	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/zerr"
)

// Environment is a read-only view of one manifest environment.
// It must not outlive the Project it was obtained from.
type Environment struct {
	project *Project
	env     *domain.Environment
}

// Name returns the environment name.
func (e *Environment) Name() string {
	return e.env.Name
}

// IsDefault reports whether this is the default environment.
func (e *Environment) IsDefault() bool {
	return e.env.Name == domain.DefaultName
}

// SolveGroup returns the solve group the environment belongs to, or "".
func (e *Environment) SolveGroup() string {
	return e.env.SolveGroup
}

// Project returns the project the view belongs to.
func (e *Environment) Project() *Project {
	return e.project
}

// Dir returns the directory holding the environment's persisted state.
func (e *Environment) Dir() string {
	return filepath.Join(e.project.EnvironmentsDir(), e.env.Name)
}

// Features returns the features of the environment in precedence order, default feature last.
// An undeclared feature reference means the manifest skipped validation and panics.
func (e *Environment) Features() []*domain.Feature {
	manifest := e.project.manifest
	out := make([]*domain.Feature, 0, len(e.env.Features)+1)
	for _, name := range e.env.Features {
		f, ok := manifest.Feature(name)
		if !ok {
			err := zerr.With(domain.ErrUnknownFeature, "feature", name.String())
			panic(zerr.With(err, "environment", e.env.Name))
		}
		out = append(out, f)
	}
	return append(out, manifest.DefaultFeature)
}

// Channels returns the unique channels of the environment, highest priority first.
// The default feature falls back to the project channels when it declares none.
// Equal priorities keep their precedence order.
func (e *Environment) Channels() []domain.Channel {
	var all []domain.PrioritizedChannel
	for _, f := range e.Features() {
		channels := f.Channels
		if f.Name.IsDefault() && channels == nil {
			channels = e.project.manifest.Project.Channels
		}
		all = append(all, channels...)
	}

	slices.SortStableFunc(all, func(a, b domain.PrioritizedChannel) int {
		return cmp.Compare(b.EffectivePriority(), a.EffectivePriority())
	})

	seen := make(map[string]struct{}, len(all))
	out := make([]domain.Channel, 0, len(all))
	for _, pc := range all {
		if _, dup := seen[pc.Channel.URL()]; dup {
			continue
		}
		seen[pc.Channel.URL()] = struct{}{}
		out = append(out, pc.Channel)
	}
	return out
}

// Platforms returns the platforms every feature of the environment supports.
// A feature without platforms supports the project platforms.
func (e *Environment) Platforms() domain.PlatformSet {
	var out domain.PlatformSet
	for i, f := range e.Features() {
		platforms := f.Platforms
		if platforms == nil {
			platforms = e.project.manifest.Project.Platforms
		}
		if i == 0 {
			out = platforms.Intersect(platforms)
			continue
		}
		out = out.Intersect(platforms)
	}
	if out == nil {
		return domain.NewPlatformSet()
	}
	return out
}

// ValidatePlatformSupport returns an UnsupportedPlatformError when platform is not supported.
func (e *Environment) ValidatePlatformSupport(platform domain.Platform) error {
	supported := e.Platforms()
	if supported.Contains(platform) {
		return nil
	}
	return &UnsupportedPlatformError{
		Environment: e.env.Name,
		Platform:    platform,
		Supported:   supported.Sorted(),
	}
}

// SystemRequirements returns the union of the system requirements of every feature.
// Conflicts are rejected when the manifest is loaded, a conflict here panics.
func (e *Environment) SystemRequirements() domain.SystemRequirements {
	var out domain.SystemRequirements
	for _, f := range e.Features() {
		merged, err := out.Union(f.SystemRequirements)
		if err != nil {
			panic(zerr.With(err, "environment", e.env.Name))
		}
		out = merged
	}
	return out
}

// Dependencies returns every conda requirement of kind for platform in precedence order.
// A nil kind combines run, host and build dependencies. A nil platform selects the
// scope-wide targets only. Requirements from different features are appended, never replaced.
func (e *Environment) Dependencies(kind *domain.SpecType, platform *domain.Platform) (*domain.Dependencies, error) {
	if err := e.validateOptionalPlatform(platform); err != nil {
		return nil, err
	}

	out := domain.NewRequirements[domain.NamelessMatchSpec]()
	for _, f := range e.Features() {
		if deps := f.Dependencies(kind, platform); deps != nil {
			out = out.Union(deps)
		}
	}
	return out, nil
}

// PyPiDependencies returns every pypi requirement for platform in precedence order.
func (e *Environment) PyPiDependencies(platform *domain.Platform) (*domain.PyPiDependencies, error) {
	if err := e.validateOptionalPlatform(platform); err != nil {
		return nil, err
	}

	out := domain.NewRequirements[domain.PyPiRequirement]()
	for _, f := range e.Features() {
		if deps := f.PyPiDependencies(platform); deps != nil {
			out = out.Union(deps)
		}
	}
	return out, nil
}

// HasPyPiDependencies reports whether any feature of the environment declares pypi dependencies.
func (e *Environment) HasPyPiDependencies() bool {
	return slices.ContainsFunc(e.Features(), (*domain.Feature).HasPyPiDependencies)
}

// ActivationScripts returns the activation scripts of every feature in precedence order.
// Per feature, only the most specific target declaring scripts contributes.
func (e *Environment) ActivationScripts(platform *domain.Platform) []string {
	var out []string
	for _, f := range e.Features() {
		out = append(out, f.ActivationScripts(platform)...)
	}
	return out
}

// Tasks returns the effective tasks for platform.
// Features are applied lowest precedence first and, within a feature, general targets before
// specific ones, so the most specific definition of the highest-precedence feature wins.
func (e *Environment) Tasks(platform *domain.Platform) (map[string]domain.Task, error) {
	if err := e.validateOptionalPlatform(platform); err != nil {
		return nil, err
	}

	out := make(map[string]domain.Task)
	features := e.Features()
	for i := len(features) - 1; i >= 0; i-- {
		targets := features[i].Targets.Resolve(platform)
		for j := len(targets) - 1; j >= 0; j-- {
			maps.Copy(out, targets[j].Tasks)
		}
	}
	return out, nil
}

// Task returns the effective task called name for platform.
// Any failure, including an unsupported platform, is reported as an UnknownTaskError.
func (e *Environment) Task(name string, platform *domain.Platform) (domain.Task, error) {
	tasks, err := e.Tasks(platform)
	if err != nil {
		return domain.Task{}, &UnknownTaskError{Environment: e.env.Name, Platform: platform, Task: name, Cause: err}
	}
	task, ok := tasks[name]
	if !ok {
		return domain.Task{}, &UnknownTaskError{Environment: e.env.Name, Platform: platform, Task: name}
	}
	return task, nil
}

func (e *Environment) validateOptionalPlatform(platform *domain.Platform) error {
	if platform == nil {
		return nil
	}
	return e.ValidatePlatformSupport(*platform)
}
