package domain

// DefaultName is the name of the scope-wide feature and of the implicit environment.
const DefaultName = "default"

// FeatureName names a feature. The zero value is the scope-wide default feature.
type FeatureName struct {
	name string
}

// NamedFeature returns the name of a named feature.
func NamedFeature(name string) FeatureName {
	return FeatureName{name: name}
}

// IsDefault reports whether this is the default feature.
func (f FeatureName) IsDefault() bool {
	return f.name == ""
}

// String returns the feature name, "default" for the default feature.
func (f FeatureName) String() string {
	if f.IsDefault() {
		return DefaultName
	}
	return f.name
}

// Feature is a reusable fragment of project configuration.
// Channels and Platforms are nil when the feature does not declare them.
type Feature struct {
	Name               FeatureName
	Channels           []PrioritizedChannel
	Platforms          PlatformSet
	SystemRequirements SystemRequirements
	Targets            Targets
}

// NewFeature creates an empty feature.
func NewFeature(name FeatureName) *Feature {
	return &Feature{
		Name:    name,
		Targets: NewTargets(),
	}
}

// Dependencies returns the feature's dependencies of kind for platform, or nil when it declares none.
// Targets are layered least specific first: a more specific target replaces the spec a less specific
// target declares for the same package, and packages keep the position they were first declared at.
func (f *Feature) Dependencies(kind *SpecType, platform *Platform) *Dependencies {
	var acc *Dependencies
	targets := f.Targets.Resolve(platform)
	for i := len(targets) - 1; i >= 0; i-- {
		deps := targets[i].DependenciesOf(kind)
		if deps == nil {
			continue
		}
		if acc == nil {
			acc = deps.Clone()
			continue
		}
		acc = acc.Extend(deps)
	}
	return acc
}

// PyPiDependencies returns the feature's pypi dependencies for platform, or nil when it declares none.
// They are layered like Dependencies.
func (f *Feature) PyPiDependencies(platform *Platform) *PyPiDependencies {
	var acc *PyPiDependencies
	targets := f.Targets.Resolve(platform)
	for i := len(targets) - 1; i >= 0; i-- {
		deps := targets[i].PyPiDependencies
		if deps.IsEmpty() {
			continue
		}
		if acc == nil {
			acc = deps.Clone()
			continue
		}
		acc = acc.Extend(deps)
	}
	return acc
}

// HasPyPiDependencies reports whether any target of the feature declares pypi dependencies.
func (f *Feature) HasPyPiDependencies() bool {
	if !f.Targets.scopeWide().PyPiDependencies.IsEmpty() {
		return true
	}
	for _, st := range f.Targets.selected {
		if !st.Target.PyPiDependencies.IsEmpty() {
			return true
		}
	}
	return false
}

// ActivationScripts returns the scripts of the most specific target that declares a scripts list.
// An activation table without scripts does not hide a less specific target.
func (f *Feature) ActivationScripts(platform *Platform) []string {
	for _, target := range f.Targets.Resolve(platform) {
		if target.Activation != nil && target.Activation.Scripts != nil {
			return target.Activation.Scripts
		}
	}
	return nil
}
