package ports

import (
	"io"

	"go.trai.ch/manifold/internal/core/domain"
)

// Renderer writes environment reports in one output format.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// RenderInfo writes the reports of one or more environments.
	RenderInfo(w io.Writer, format domain.OutputFormat, reports []domain.EnvironmentReport) error
	// RenderTasks writes a sorted task listing.
	RenderTasks(w io.Writer, format domain.OutputFormat, tasks []domain.TaskReport) error
}
