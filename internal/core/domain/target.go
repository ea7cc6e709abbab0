package domain

import (
	"cmp"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

type selectorKind uint8

const (
	selectorUnix selectorKind = iota + 1
	selectorLinux
	selectorWin
	selectorOsx
	selectorPlatform
)

// TargetSelector chooses the platforms a target applies to: one exact platform or a platform family.
type TargetSelector struct {
	kind     selectorKind
	platform Platform
}

// Family selectors.
var (
	SelectorUnix  = TargetSelector{kind: selectorUnix}
	SelectorLinux = TargetSelector{kind: selectorLinux}
	SelectorWin   = TargetSelector{kind: selectorWin}
	SelectorOsx   = TargetSelector{kind: selectorOsx}
)

// PlatformSelector selects exactly one platform.
func PlatformSelector(p Platform) TargetSelector {
	return TargetSelector{kind: selectorPlatform, platform: p}
}

// ParseTargetSelector parses "unix", "linux", "win", "osx" or a platform name.
func ParseTargetSelector(s string) (TargetSelector, error) {
	switch strings.TrimSpace(s) {
	case "unix":
		return SelectorUnix, nil
	case "linux":
		return SelectorLinux, nil
	case "win":
		return SelectorWin, nil
	case "osx":
		return SelectorOsx, nil
	}
	p, err := ParsePlatform(s)
	if err != nil {
		return TargetSelector{}, zerr.With(ErrInvalidTargetSelector, "selector", s)
	}
	return PlatformSelector(p), nil
}

// Matches reports whether the selector applies to p.
func (s TargetSelector) Matches(p Platform) bool {
	switch s.kind {
	case selectorUnix:
		return p.IsUnix()
	case selectorLinux:
		return p.IsLinux()
	case selectorWin:
		return p.IsWindows()
	case selectorOsx:
		return p.IsOsx()
	case selectorPlatform:
		return s.platform == p
	default:
		return false
	}
}

// specificity ranks selectors, higher is more specific.
func (s TargetSelector) specificity() int {
	switch s.kind {
	case selectorPlatform:
		return 3
	case selectorLinux, selectorWin, selectorOsx:
		return 2
	default:
		return 1
	}
}

// String returns the selector as written in the manifest.
func (s TargetSelector) String() string {
	switch s.kind {
	case selectorUnix:
		return "unix"
	case selectorLinux:
		return "linux"
	case selectorWin:
		return "win"
	case selectorOsx:
		return "osx"
	default:
		return s.platform.String()
	}
}

// Activation lists the scripts sourced when an environment is activated.
type Activation struct {
	Scripts []string
}

// Target is the configuration of a feature for one selector, or for every platform.
// Nil fields were not declared.
type Target struct {
	Dependencies     map[SpecType]*Dependencies
	PyPiDependencies *PyPiDependencies
	Activation       *Activation
	Tasks            map[string]Task
}

// NewTarget creates an empty target.
func NewTarget() *Target {
	return &Target{
		Dependencies: make(map[SpecType]*Dependencies),
		Tasks:        make(map[string]Task),
	}
}

// DependenciesOf returns the dependencies of one kind, or the combined run, host and build
// dependencies when kind is nil. When combining, a later kind replaces the spec of an earlier one.
// It returns nil when the target declares none.
func (t *Target) DependenciesOf(kind *SpecType) *Dependencies {
	if kind != nil {
		deps := t.Dependencies[*kind]
		if deps.IsEmpty() {
			return nil
		}
		return deps
	}

	var combined *Dependencies
	for _, k := range SpecTypes {
		deps := t.Dependencies[k]
		if deps.IsEmpty() {
			continue
		}
		if combined == nil {
			combined = NewRequirements[NamelessMatchSpec]()
		}
		for name, specs := range deps.All() {
			combined.Set(name, specs...)
		}
	}
	return combined
}

// SelectedTarget pairs a target with the selector it was declared under.
type SelectedTarget struct {
	Selector TargetSelector
	Target   *Target
}

// Targets holds the scope-wide target of a feature and its selector-specific targets.
type Targets struct {
	defaultTarget *Target
	selected      []SelectedTarget
}

// NewTargets creates a Targets with an empty scope-wide target.
func NewTargets() Targets {
	return Targets{defaultTarget: NewTarget()}
}

// Default returns the scope-wide target.
func (t *Targets) Default() *Target {
	if t.defaultTarget == nil {
		t.defaultTarget = NewTarget()
	}
	return t.defaultTarget
}

// ForSelector returns the target declared for s, creating it when absent.
func (t *Targets) ForSelector(s TargetSelector) *Target {
	for _, st := range t.selected {
		if st.Selector == s {
			return st.Target
		}
	}
	target := NewTarget()
	t.selected = append(t.selected, SelectedTarget{Selector: s, Target: target})
	return target
}

// Selected returns the selector-specific targets in declaration order.
func (t *Targets) Selected() []SelectedTarget {
	return slices.Clone(t.selected)
}

// Resolve returns the targets that apply to platform, most specific first.
// The scope-wide target is always last. Without a platform only the scope-wide target applies.
func (t *Targets) Resolve(platform *Platform) []*Target {
	if platform == nil {
		return []*Target{t.scopeWide()}
	}

	matching := make([]SelectedTarget, 0, len(t.selected))
	for _, st := range t.selected {
		if st.Selector.Matches(*platform) {
			matching = append(matching, st)
		}
	}
	slices.SortStableFunc(matching, func(a, b SelectedTarget) int {
		return cmp.Compare(b.Selector.specificity(), a.Selector.specificity())
	})

	out := make([]*Target, 0, len(matching)+1)
	for _, st := range matching {
		out = append(out, st.Target)
	}
	return append(out, t.scopeWide())
}

// scopeWide returns the scope-wide target without initializing it, so resolution never writes.
func (t *Targets) scopeWide() *Target {
	if t.defaultTarget == nil {
		return NewTarget()
	}
	return t.defaultTarget
}
