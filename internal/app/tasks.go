package app

import (
	"context"
	"slices"
	"strings"

	"go.trai.ch/manifold/internal/core/domain"
)

// TaskListOptions configures the TaskList method.
type TaskListOptions struct {
	ManifestPath string
	Environment  string
	Platform     string
	Format       domain.OutputFormat
}

// TaskList renders the effective tasks of one environment, sorted by name.
func (a *App) TaskList(ctx context.Context, opts TaskListOptions) error {
	p, err := a.loadProject(ctx, opts.ManifestPath)
	if err != nil {
		return err
	}

	env, err := p.LookupEnvironment(opts.Environment)
	if err != nil {
		return err
	}

	platform, err := parsePlatform(opts.Platform)
	if err != nil {
		return err
	}

	tasks, err := env.Tasks(platform)
	if err != nil {
		return err
	}

	reports := make([]domain.TaskReport, 0, len(tasks))
	for _, task := range tasks {
		reports = append(reports, domain.NewTaskReport(task))
	}
	slices.SortFunc(reports, func(x, y domain.TaskReport) int {
		return strings.Compare(x.Name, y.Name)
	})

	return a.renderer.RenderTasks(a.stdout, opts.Format, reports)
}
