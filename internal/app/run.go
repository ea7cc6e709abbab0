package app

import (
	"context"
	"fmt"
	"path/filepath"

	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/manifold/internal/core/ports"
	"go.trai.ch/manifold/internal/core/project"
	"go.trai.ch/zerr"
)

// RunOptions configures the Run method.
type RunOptions struct {
	ManifestPath string
	Environment  string
	// Platform selects the task definitions. Empty selects the current platform.
	Platform      string
	LockFileUsage domain.LockFileUsage
}

// Run executes a task and its dependencies, dependencies first.
func (a *App) Run(ctx context.Context, taskName string, opts RunOptions) error {
	p, err := a.loadProject(ctx, opts.ManifestPath)
	if err != nil {
		return err
	}

	env, err := p.LookupEnvironment(opts.Environment)
	if err != nil {
		return err
	}

	platform, err := runPlatform(opts.Platform)
	if err != nil {
		return err
	}

	graph, err := resolveTaskGraph(env, taskName, platform)
	if err != nil {
		return err
	}

	status, err := a.reconcile(ctx, env, opts.LockFileUsage)
	if err != nil {
		return err
	}
	if status == IntentUpdated {
		a.logger.Info(fmt.Sprintf("environment '%s' intent updated", env.Name()))
	}

	var plan []string
	for task := range graph.Walk() {
		plan = append(plan, task.Name.String())
	}
	a.tracer.EmitPlan(ctx, plan)

	vars := taskVariables(p, env)
	for task := range graph.Walk() {
		if err := a.runTask(ctx, p, env, task, vars); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) runTask(
	ctx context.Context,
	p *project.Project,
	env *project.Environment,
	task domain.Task,
	vars []string,
) error {
	ctx, span := a.tracer.Start(ctx, "run_task",
		ports.WithAttribute("environment", env.Name()),
		ports.WithAttribute("task", task.Name.String()),
	)
	defer span.End()

	if task.IsAlias() {
		return nil
	}

	task.WorkingDir = resolveWorkingDir(p.Root(), task.WorkingDir)
	a.logger.Info(fmt.Sprintf("%s: %s", task.Name, task.Command))

	if err := a.executor.Execute(ctx, &task, vars, a.stdout, a.stderr); err != nil {
		span.RecordError(err)
		return errEnvironment(err, env)
	}
	return nil
}

// runPlatform selects the platform tasks are resolved for.
func runPlatform(flag string) (*domain.Platform, error) {
	if flag != "" {
		return parsePlatform(flag)
	}
	if current, ok := domain.CurrentPlatform(); ok {
		return &current, nil
	}
	return nil, nil //nolint:nilnil // only scope-wide tasks apply
}

// resolveTaskGraph collects name and everything it depends on through the same environment and platform.
func resolveTaskGraph(env *project.Environment, name string, platform *domain.Platform) (*domain.Graph, error) {
	graph := domain.NewGraph()
	queue := []string{name}
	requiredBy := map[string]string{}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if graph.Contains(domain.NewInternedString(current)) {
			continue
		}

		task, err := env.Task(current, platform)
		if err != nil {
			if parent, ok := requiredBy[current]; ok {
				return nil, zerr.With(err, "required_by", parent)
			}
			return nil, err
		}
		if err := graph.AddTask(&task); err != nil {
			return nil, err
		}

		for _, dep := range task.Dependencies {
			if _, ok := requiredBy[dep.String()]; !ok {
				requiredBy[dep.String()] = current
			}
			queue = append(queue, dep.String())
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, err
	}
	return graph, nil
}

func resolveWorkingDir(root, cwd string) string {
	if cwd == "" {
		return root
	}
	if filepath.IsAbs(cwd) {
		return cwd
	}
	return filepath.Join(root, cwd)
}

// taskVariables describes the project and environment to the running command.
func taskVariables(p *project.Project, env *project.Environment) []string {
	return []string{
		"MANIFOLD_PROJECT_ROOT=" + p.Root(),
		"MANIFOLD_PROJECT_NAME=" + p.Name(),
		"MANIFOLD_PROJECT_MANIFEST=" + p.Manifest().Path,
		"MANIFOLD_ENVIRONMENT_NAME=" + env.Name(),
		"MANIFOLD_ENVIRONMENT_DIR=" + env.Dir(),
	}
}
