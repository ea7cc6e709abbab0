package domain

import (
	"strings"

	"go.trai.ch/zerr"
	"golang.org/x/mod/semver"
)

// DefaultLibCFamily is the libc family assumed when only a version is given.
const DefaultLibCFamily = "glibc"

// LibC is a minimum C library requirement.
type LibC struct {
	Family  string `json:"family" yaml:"family"`
	Version string `json:"version" yaml:"version"`
}

// SystemRequirements describes the minimum system an environment needs.
// Empty strings and false flags mean "no requirement".
type SystemRequirements struct {
	Windows  bool   `json:"windows,omitempty" yaml:"windows,omitempty"`
	Unix     bool   `json:"unix,omitempty" yaml:"unix,omitempty"`
	MacOS    string `json:"macos,omitempty" yaml:"macos,omitempty"`
	Linux    string `json:"linux,omitempty" yaml:"linux,omitempty"`
	Cuda     string `json:"cuda,omitempty" yaml:"cuda,omitempty"`
	LibC     *LibC  `json:"libc,omitempty" yaml:"libc,omitempty"`
	Archspec string `json:"archspec,omitempty" yaml:"archspec,omitempty"`
}

// IsEmpty reports whether no requirement is set.
func (s SystemRequirements) IsEmpty() bool {
	return !s.Windows && !s.Unix && s.MacOS == "" && s.Linux == "" &&
		s.Cuda == "" && s.LibC == nil && s.Archspec == ""
}

// Union merges s and other, keeping the more restrictive value of every field.
// Versions take the maximum, flags are OR-ed. A libc family or archspec mismatch
// cannot be merged and returns ErrSystemRequirementsConflict.
func (s SystemRequirements) Union(other SystemRequirements) (SystemRequirements, error) {
	out := SystemRequirements{
		Windows: s.Windows || other.Windows,
		Unix:    s.Unix || other.Unix,
		MacOS:   MaxVersion(s.MacOS, other.MacOS),
		Linux:   MaxVersion(s.Linux, other.Linux),
		Cuda:    MaxVersion(s.Cuda, other.Cuda),
	}

	switch {
	case s.LibC == nil && other.LibC != nil:
		libc := *other.LibC
		out.LibC = &libc
	case s.LibC != nil && other.LibC == nil:
		libc := *s.LibC
		out.LibC = &libc
	case s.LibC != nil && other.LibC != nil:
		if s.LibC.Family != other.LibC.Family {
			err := zerr.With(ErrSystemRequirementsConflict, "field", "libc")
			return SystemRequirements{}, zerr.With(err, "families", s.LibC.Family+", "+other.LibC.Family)
		}
		out.LibC = &LibC{Family: s.LibC.Family, Version: MaxVersion(s.LibC.Version, other.LibC.Version)}
	}

	switch {
	case s.Archspec == "":
		out.Archspec = other.Archspec
	case other.Archspec == "" || other.Archspec == s.Archspec:
		out.Archspec = s.Archspec
	default:
		err := zerr.With(ErrSystemRequirementsConflict, "field", "archspec")
		return SystemRequirements{}, zerr.With(err, "values", s.Archspec+", "+other.Archspec)
	}

	return out, nil
}

// ValidateVersion checks that v is a dotted numeric version such as "2.17" or "12.0".
func ValidateVersion(v string) error {
	if !semver.IsValid(toSemver(v)) || strings.ContainsAny(v, "-+") {
		return zerr.With(ErrInvalidVersion, "version", v)
	}
	return nil
}

// MaxVersion returns the higher of two versions, treating "" as absent.
func MaxVersion(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	case semver.Compare(toSemver(b), toSemver(a)) > 0:
		return b
	default:
		return a
	}
}

func toSemver(v string) string {
	return "v" + strings.TrimPrefix(strings.TrimSpace(v), "v")
}
