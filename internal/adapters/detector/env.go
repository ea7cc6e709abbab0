// Package detector decides whether terminal output should be colored.
package detector

import (
	"os"

	"go.trai.ch/manifold/internal/core/domain"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// IsCI reports whether the process runs in a CI environment.
func IsCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}

// DetectColor reports whether automatic color should be enabled for output written to f.
// Color is off when f is not a terminal, in CI, or when NO_COLOR is set.
func DetectColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || IsCI() {
		return false
	}
	return IsTerminal(f)
}

// ResolveColor applies the user's color mode to the detected value.
func ResolveColor(detected bool, mode domain.ColorMode) bool {
	switch mode {
	case domain.ColorAlways:
		return true
	case domain.ColorNever:
		return false
	default:
		return detected
	}
}
