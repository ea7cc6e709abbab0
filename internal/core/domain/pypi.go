package domain

import (
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

var (
	pypiNameRegex      = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)
	pypiSeparatorRegex = regexp.MustCompile(`[-_.]+`)
)

// PyPiRequirement is a requirement on a python package without the package name.
type PyPiRequirement struct {
	Version string
	Extras  []string
}

// String renders the requirement as "[extra,...]version".
func (r PyPiRequirement) String() string {
	version := r.Version
	if version == "" {
		version = "*"
	}
	if len(r.Extras) == 0 {
		return version
	}
	return "[" + strings.Join(r.Extras, ",") + "]" + version
}

// NewPyPiRequirement validates and normalizes a requirement.
func NewPyPiRequirement(version string, extras []string) (PyPiRequirement, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		version = "*"
	}
	if strings.ContainsAny(version, "[]") {
		return PyPiRequirement{}, zerr.With(ErrInvalidPyPiRequirement, "version", version)
	}

	normalized := make([]string, 0, len(extras))
	for _, extra := range extras {
		name, err := NormalizePyPiName(extra)
		if err != nil {
			return PyPiRequirement{}, zerr.With(ErrInvalidPyPiRequirement, "extra", extra)
		}
		if !slices.Contains(normalized, name) {
			normalized = append(normalized, name)
		}
	}
	if len(normalized) == 0 {
		normalized = nil
	}
	return PyPiRequirement{Version: version, Extras: normalized}, nil
}

// PyPiDependencies maps normalized python package names to every requirement imposed on them.
type PyPiDependencies = Requirements[PyPiRequirement]

// NormalizePyPiName returns the PEP 503 normalized form of a python package name.
func NormalizePyPiName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if !pypiNameRegex.MatchString(name) {
		return "", zerr.With(ErrInvalidPackageName, "package", name)
	}
	return strings.ToLower(pypiSeparatorRegex.ReplaceAllString(name, "-")), nil
}
