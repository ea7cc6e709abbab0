// Package app implements the application layer for manifold.
package app

import (
	"context"
	"io"
	"os"

	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/manifold/internal/core/ports"
	"go.trai.ch/manifold/internal/core/project"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	store        ports.IntentStore
	renderer     ports.Renderer
	watcher      ports.Watcher
	tracer       ports.Tracer
	logger       ports.Logger
	stdout       io.Writer
	stderr       io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	store ports.IntentStore,
	renderer ports.Renderer,
	watcher ports.Watcher,
	tracer ports.Tracer,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		store:        store,
		renderer:     renderer,
		watcher:      watcher,
		tracer:       tracer,
		logger:       log,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithOutput redirects reports and task output.
// This is primarily used for testing.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// loadProject reads the manifest at manifestPath, or discovers it from the working directory.
func (a *App) loadProject(ctx context.Context, manifestPath string) (*project.Project, error) {
	_, span := a.tracer.Start(ctx, "load_manifest")
	defer span.End()

	if manifestPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			span.RecordError(err)
			return nil, zerr.Wrap(err, "failed to get working directory")
		}
		manifestPath, err = a.configLoader.DiscoverManifest(cwd)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
	}
	span.SetAttribute("path", manifestPath)

	p, err := a.configLoader.Load(manifestPath)
	if err != nil {
		span.RecordError(err)
		return nil, zerr.Wrap(err, "failed to load manifest")
	}
	span.SetAttribute("project", p.Name())
	return p, nil
}

// parsePlatform turns an optional platform flag into a platform selection.
// An empty string selects no platform.
func parsePlatform(s string) (*domain.Platform, error) {
	if s == "" {
		return nil, nil //nolint:nilnil // no platform selected
	}
	p, err := domain.ParsePlatform(s)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func environmentAttributes(env *project.Environment, platform *domain.Platform) []ports.SpanOption {
	opts := []ports.SpanOption{ports.WithAttribute("environment", env.Name())}
	if platform != nil {
		opts = append(opts, ports.WithAttribute("platform", platform.String()))
	}
	return opts
}
