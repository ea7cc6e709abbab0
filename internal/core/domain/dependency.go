package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// SpecType is the kind of a conda dependency.
type SpecType uint8

const (
	// SpecTypeRun marks dependencies needed at runtime.
	SpecTypeRun SpecType = iota
	// SpecTypeHost marks dependencies needed in the host environment while building.
	SpecTypeHost
	// SpecTypeBuild marks dependencies needed on the build machine.
	SpecTypeBuild
)

// SpecTypes lists every dependency kind in merge order.
var SpecTypes = []SpecType{SpecTypeRun, SpecTypeHost, SpecTypeBuild}

// String returns the manifest section name of the kind.
func (s SpecType) String() string {
	switch s {
	case SpecTypeHost:
		return "host"
	case SpecTypeBuild:
		return "build"
	default:
		return "run"
	}
}

// NamelessMatchSpec is a conda requirement without the package name.
type NamelessMatchSpec struct {
	Version string
	Build   string
	Channel string
}

// ParseNamelessMatchSpec parses "version" or "version build".
func ParseNamelessMatchSpec(s string) (NamelessMatchSpec, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		return NamelessMatchSpec{Version: fields[0]}, nil
	case 2:
		return NamelessMatchSpec{Version: fields[0], Build: fields[1]}, nil
	default:
		return NamelessMatchSpec{}, zerr.With(ErrInvalidMatchSpec, "spec", s)
	}
}

// String renders the spec as "[channel::]version[ build]".
func (m NamelessMatchSpec) String() string {
	var b strings.Builder
	if m.Channel != "" {
		b.WriteString(m.Channel)
		b.WriteString("::")
	}
	if m.Version == "" {
		b.WriteString("*")
	} else {
		b.WriteString(m.Version)
	}
	if m.Build != "" {
		b.WriteString(" ")
		b.WriteString(m.Build)
	}
	return b.String()
}

// Dependencies maps conda package names to every spec imposed on them.
type Dependencies = Requirements[NamelessMatchSpec]

// NormalizePackageName validates a conda package name and returns its lowercase form.
func NormalizePackageName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, " \t=<>!~,") {
		return "", zerr.With(ErrInvalidPackageName, "package", name)
	}
	return strings.ToLower(name), nil
}
