package config

// Manifest represents the structure of the manifold.toml file.
// Tables whose entries are polymorphic are decoded into maps and converted afterwards.
type Manifest struct {
	Project            ProjectDTO             `toml:"project"`
	Dependencies       map[string]any         `toml:"dependencies"`
	HostDependencies   map[string]any         `toml:"host-dependencies"`
	BuildDependencies  map[string]any         `toml:"build-dependencies"`
	PyPiDependencies   map[string]any         `toml:"pypi-dependencies"`
	Tasks              map[string]any         `toml:"tasks"`
	Activation         *ActivationDTO         `toml:"activation"`
	SystemRequirements *SystemRequirementsDTO `toml:"system-requirements"`
	Target             map[string]*TargetDTO  `toml:"target"`
	Feature            map[string]*FeatureDTO `toml:"feature"`
	Environments       map[string]any         `toml:"environments"`
}

// ProjectDTO represents the [project] table.
type ProjectDTO struct {
	Name          string   `toml:"name"`
	Version       string   `toml:"version"`
	Description   string   `toml:"description"`
	Authors       []string `toml:"authors"`
	License       string   `toml:"license"`
	Homepage      string   `toml:"homepage"`
	Repository    string   `toml:"repository"`
	Documentation string   `toml:"documentation"`
	Channels      []any    `toml:"channels"`
	Platforms     []string `toml:"platforms"`
}

// FeatureDTO represents a [feature.<name>] table.
// Channels and Platforms are pointers so that an omitted key can be told apart from an empty list.
type FeatureDTO struct {
	Channels           *[]any                 `toml:"channels"`
	Platforms          *[]string              `toml:"platforms"`
	SystemRequirements *SystemRequirementsDTO `toml:"system-requirements"`
	Dependencies       map[string]any         `toml:"dependencies"`
	HostDependencies   map[string]any         `toml:"host-dependencies"`
	BuildDependencies  map[string]any         `toml:"build-dependencies"`
	PyPiDependencies   map[string]any         `toml:"pypi-dependencies"`
	Tasks              map[string]any         `toml:"tasks"`
	Activation         *ActivationDTO         `toml:"activation"`
	Target             map[string]*TargetDTO  `toml:"target"`
}

// TargetDTO represents a [target.<selector>] table.
// Feature only applies at the top level, where [target.<selector>.feature.<name>] overrides a named feature.
type TargetDTO struct {
	Dependencies      map[string]any        `toml:"dependencies"`
	HostDependencies  map[string]any        `toml:"host-dependencies"`
	BuildDependencies map[string]any        `toml:"build-dependencies"`
	PyPiDependencies  map[string]any        `toml:"pypi-dependencies"`
	Tasks             map[string]any        `toml:"tasks"`
	Activation        *ActivationDTO        `toml:"activation"`
	Feature           map[string]*TargetDTO `toml:"feature"`
}

// ActivationDTO represents an [activation] table.
type ActivationDTO struct {
	Scripts []string `toml:"scripts"`
}

// SystemRequirementsDTO represents a [system-requirements] table.
// LibC is either a glibc version string or a table with family and version.
type SystemRequirementsDTO struct {
	Linux    string `toml:"linux"`
	MacOS    string `toml:"macos"`
	Cuda     string `toml:"cuda"`
	LibC     any    `toml:"libc"`
	Archspec string `toml:"archspec"`
	Unix     bool   `toml:"unix"`
	Windows  bool   `toml:"windows"`
}

func (m *Manifest) defaultTarget() *TargetDTO {
	return &TargetDTO{
		Dependencies:      m.Dependencies,
		HostDependencies:  m.HostDependencies,
		BuildDependencies: m.BuildDependencies,
		PyPiDependencies:  m.PyPiDependencies,
		Tasks:             m.Tasks,
		Activation:        m.Activation,
	}
}

func (f *FeatureDTO) defaultTarget() *TargetDTO {
	return &TargetDTO{
		Dependencies:      f.Dependencies,
		HostDependencies:  f.HostDependencies,
		BuildDependencies: f.BuildDependencies,
		PyPiDependencies:  f.PyPiDependencies,
		Tasks:             f.Tasks,
		Activation:        f.Activation,
	}
}
