package project

import (
	"fmt"
	"strings"

	"go.trai.ch/manifold/internal/core/domain"
)

// UnsupportedPlatformError is returned when an environment is queried for a platform it does not support.
type UnsupportedPlatformError struct {
	Environment string
	Platform    domain.Platform
	Supported   []domain.Platform
}

func (e *UnsupportedPlatformError) Error() string {
	supported := make([]string, len(e.Supported))
	for i, p := range e.Supported {
		supported[i] = p.String()
	}
	return fmt.Sprintf("environment '%s' does not support platform '%s', supported platforms: [%s]",
		e.Environment, e.Platform, strings.Join(supported, ", "))
}

// Unwrap lets errors.Is match domain.ErrUnsupportedPlatform.
func (e *UnsupportedPlatformError) Unwrap() error {
	return domain.ErrUnsupportedPlatform
}

// UnknownTaskError is returned when a task is not available for an environment and platform.
// It is returned both for undefined tasks and for unsupported platforms.
// Cause holds the platform error in the latter case.
type UnknownTaskError struct {
	Environment string
	Platform    *domain.Platform
	Task        string
	Cause       error
}

func (e *UnknownTaskError) Error() string {
	if e.Platform == nil {
		return fmt.Sprintf("task '%s' does not exist in environment '%s'", e.Task, e.Environment)
	}
	return fmt.Sprintf("task '%s' does not exist in environment '%s' for platform '%s'",
		e.Task, e.Environment, *e.Platform)
}

// Unwrap lets errors.Is match domain.ErrUnknownTask.
func (e *UnknownTaskError) Unwrap() error {
	return domain.ErrUnknownTask
}
