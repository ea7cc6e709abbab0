package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/manifold/internal/ui/style"
)

// pretty writes human-readable reports. Labels are right-aligned and
// multi-valued fields continue on the following lines.
type pretty struct {
	w       io.Writer
	heading lipgloss.Style
	label   lipgloss.Style
	name    lipgloss.Style
	muted   lipgloss.Style
	err     error
}

func newPretty(w io.Writer, profile termenv.Profile) *pretty {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)

	return &pretty{
		w:       w,
		heading: r.NewStyle().Bold(true).Foreground(style.Iris),
		label:   r.NewStyle().Foreground(style.Slate),
		name:    r.NewStyle().Bold(true),
		muted:   r.NewStyle().Faint(true),
	}
}

type field struct {
	label  string
	values []string
}

func (p *pretty) info(reports []domain.EnvironmentReport) error {
	for i, report := range reports {
		if i > 0 {
			p.printf("\n")
		}
		p.printf("%s %s\n", p.heading.Render("Environment:"), p.heading.Render(report.Name))
		p.fields(environmentFields(report))
	}
	return p.err
}

func environmentFields(report domain.EnvironmentReport) []field {
	fields := []field{{label: "Features", values: []string{strings.Join(report.Features, ", ")}}}
	if report.SolveGroup != "" {
		fields = append(fields, field{label: "Solve group", values: []string{report.SolveGroup}})
	}
	if report.Platform != "" {
		fields = append(fields, field{label: "Platform", values: []string{report.Platform}})
	}
	fields = append(fields,
		field{label: "Channels", values: report.Channels},
		field{label: "Platforms", values: []string{strings.Join(report.Platforms, ", ")}},
	)
	if report.SystemRequirements != nil && !report.SystemRequirements.IsEmpty() {
		fields = append(fields, field{label: "System requirements", values: systemRequirements(*report.SystemRequirements)})
	}
	fields = append(fields,
		field{label: "Dependencies", values: requirements(report.Dependencies)},
		field{label: "Host dependencies", values: requirements(report.HostDependencies)},
		field{label: "Build dependencies", values: requirements(report.BuildDependencies)},
		field{label: "PyPI dependencies", values: requirements(report.PyPiDependencies)},
		field{label: "Activation scripts", values: report.ActivationScripts},
		field{label: "Tasks", values: []string{strings.Join(report.Tasks, ", ")}},
	)
	return fields
}

// fields prints non-empty fields with labels aligned on the widest one.
func (p *pretty) fields(fields []field) {
	width := 0
	for _, f := range fields {
		if !isEmpty(f.values) {
			width = max(width, lipgloss.Width(f.label))
		}
	}

	for _, f := range fields {
		if isEmpty(f.values) {
			continue
		}
		pad := strings.Repeat(" ", width-lipgloss.Width(f.label))
		p.printf("  %s%s: %s\n", pad, p.label.Render(f.label), f.values[0])
		for _, v := range f.values[1:] {
			p.printf("  %s  %s\n", strings.Repeat(" ", width), v)
		}
	}
}

func (p *pretty) tasks(tasks []domain.TaskReport) error {
	if len(tasks) == 0 {
		p.printf("%s\n", p.muted.Render("No tasks defined"))
		return p.err
	}

	width := 0
	for _, t := range tasks {
		width = max(width, lipgloss.Width(t.Name))
	}

	for _, t := range tasks {
		pad := strings.Repeat(" ", width-lipgloss.Width(t.Name))
		summary := t.Command
		if summary == "" {
			summary = p.muted.Render(style.Arrow + " " + strings.Join(t.DependsOn, ", "))
		}
		p.printf("%s%s  %s\n", p.name.Render(t.Name), pad, summary)
		if t.Description != "" {
			p.printf("%s  %s\n", strings.Repeat(" ", width), p.muted.Render(t.Description))
		}
	}
	return p.err
}

func (p *pretty) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func isEmpty(values []string) bool {
	return len(values) == 0 || (len(values) == 1 && values[0] == "")
}

func requirements(reqs []domain.RequirementIntent) []string {
	out := make([]string, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, strings.TrimSpace(r.Name+" "+strings.Join(r.Specs, ", ")))
	}
	return out
}

func systemRequirements(s domain.SystemRequirements) []string {
	var out []string
	add := func(name, version string) {
		if version != "" {
			out = append(out, name+" "+version)
		}
	}
	add("cuda", s.Cuda)
	add("linux", s.Linux)
	add("macos", s.MacOS)
	if s.LibC != nil {
		add("libc", s.LibC.Family+" "+s.LibC.Version)
	}
	add("archspec", s.Archspec)
	if s.Unix {
		out = append(out, "unix")
	}
	if s.Windows {
		out = append(out, "windows")
	}
	return out
}
