package domain

// RequirementIntent is one package and the specs declared for it.
type RequirementIntent struct {
	Name  string   `json:"name" yaml:"name"`
	Specs []string `json:"specs" yaml:"specs"`
}

// PlatformIntent is the declared intent of an environment for one platform.
type PlatformIntent struct {
	Platform         string              `json:"platform" yaml:"platform"`
	Dependencies     []RequirementIntent `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	PyPiDependencies []RequirementIntent `json:"pypi_dependencies,omitempty" yaml:"pypi-dependencies,omitempty"`
}

// IntentSnapshot is the declared intent of an environment as persisted by install.
// It never contains resolved packages.
type IntentSnapshot struct {
	Environment        string             `json:"environment"`
	Channels           []string           `json:"channels"`
	Platforms          []string           `json:"platforms"`
	SystemRequirements SystemRequirements `json:"system_requirements"`
	Targets            []PlatformIntent   `json:"targets"`
	Fingerprint        string             `json:"fingerprint,omitempty"`
}

// RequirementIntents flattens requirements into an ordered, serializable list.
func RequirementIntents[V interface{ String() string }](r *Requirements[V]) []RequirementIntent {
	if r.IsEmpty() {
		return nil
	}
	out := make([]RequirementIntent, 0, r.Len())
	for name, specs := range r.All() {
		rendered := make([]string, len(specs))
		for i, spec := range specs {
			rendered[i] = spec.String()
		}
		out = append(out, RequirementIntent{Name: name, Specs: rendered})
	}
	return out
}
