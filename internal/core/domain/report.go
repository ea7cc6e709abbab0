package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// OutputFormat selects how reports are written.
type OutputFormat string

const (
	// FormatPretty is human-readable, colored output.
	FormatPretty OutputFormat = "pretty"
	// FormatJSON is indented JSON.
	FormatJSON OutputFormat = "json"
	// FormatYAML is YAML.
	FormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat validates s. An empty string selects FormatPretty.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPretty, nil
	case FormatPretty, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", zerr.With(ErrInvalidOutputFormat, "format", s)
	}
}

// EnvironmentReport is the composed configuration of one environment, ready to be rendered.
type EnvironmentReport struct {
	Name               string              `json:"name" yaml:"name"`
	Features           []string            `json:"features" yaml:"features"`
	SolveGroup         string              `json:"solve_group,omitempty" yaml:"solve-group,omitempty"`
	Platform           string              `json:"platform,omitempty" yaml:"platform,omitempty"`
	Channels           []string            `json:"channels" yaml:"channels"`
	Platforms          []string            `json:"platforms" yaml:"platforms"`
	SystemRequirements *SystemRequirements `json:"system_requirements,omitempty" yaml:"system-requirements,omitempty"`
	Dependencies       []RequirementIntent `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	HostDependencies   []RequirementIntent `json:"host_dependencies,omitempty" yaml:"host-dependencies,omitempty"`
	BuildDependencies  []RequirementIntent `json:"build_dependencies,omitempty" yaml:"build-dependencies,omitempty"`
	PyPiDependencies   []RequirementIntent `json:"pypi_dependencies,omitempty" yaml:"pypi-dependencies,omitempty"`
	ActivationScripts  []string            `json:"activation_scripts,omitempty" yaml:"activation-scripts,omitempty"`
	Tasks              []string            `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

// TaskReport describes one effective task.
type TaskReport struct {
	Name        string            `json:"name" yaml:"name"`
	Command     string            `json:"cmd,omitempty" yaml:"cmd,omitempty"`
	DependsOn   []string          `json:"depends_on,omitempty" yaml:"depends-on,omitempty"`
	WorkingDir  string            `json:"cwd,omitempty" yaml:"cwd,omitempty"`
	Env         map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewTaskReport converts a task into its report form.
func NewTaskReport(t Task) TaskReport {
	var deps []string
	for _, d := range t.Dependencies {
		deps = append(deps, d.String())
	}
	return TaskReport{
		Name:        t.Name.String(),
		Command:     t.Command,
		DependsOn:   deps,
		WorkingDir:  t.WorkingDir,
		Env:         t.Environment,
		Description: t.Description,
	}
}
