package app

import (
	"context"
	"fmt"
	"slices"

	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/manifold/internal/core/project"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// InfoOptions configures the Info method.
type InfoOptions struct {
	ManifestPath string
	// Environments to report on. Empty selects every environment.
	Environments []string
	Platform     string
	Format       domain.OutputFormat
	// Watch re-renders the report whenever the manifest changes.
	Watch bool
}

// Info renders the composed configuration of the requested environments.
func (a *App) Info(ctx context.Context, opts InfoOptions) error {
	manifestPath, err := a.renderInfo(ctx, opts)
	if err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}
	return a.watchInfo(ctx, manifestPath, opts)
}

// renderInfo loads the manifest and renders one report. It returns the manifest path.
func (a *App) renderInfo(ctx context.Context, opts InfoOptions) (string, error) {
	p, err := a.loadProject(ctx, opts.ManifestPath)
	if err != nil {
		return "", err
	}

	platform, err := parsePlatform(opts.Platform)
	if err != nil {
		return "", err
	}

	envs, err := selectEnvironments(p, opts.Environments)
	if err != nil {
		return "", err
	}

	reports := make([]domain.EnvironmentReport, len(envs))
	g, gctx := errgroup.WithContext(ctx)
	for i, env := range envs {
		g.Go(func() error {
			report, err := a.composeReport(gctx, env, platform)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	if err := a.renderer.RenderInfo(a.stdout, opts.Format, reports); err != nil {
		return "", err
	}
	return p.Manifest().Path, nil
}

func (a *App) watchInfo(ctx context.Context, manifestPath string, opts InfoOptions) error {
	if err := a.watcher.Start(ctx, manifestPath); err != nil {
		return err
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	a.logger.Info(fmt.Sprintf("watching %s for changes", manifestPath))

	opts.ManifestPath = manifestPath
	for event := range a.watcher.Events() {
		a.logger.Debug(fmt.Sprintf("manifest changed: %s", event.Path))
		if _, err := a.renderInfo(ctx, opts); err != nil {
			a.logger.Error(err)
		}
	}
	return nil
}

func selectEnvironments(p *project.Project, names []string) ([]*project.Environment, error) {
	if len(names) == 0 {
		return p.Environments(), nil
	}
	out := make([]*project.Environment, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		env, err := p.LookupEnvironment(name)
		if err != nil {
			return nil, err
		}
		out = append(out, env)
	}
	return out, nil
}

// composeReport queries every aspect of one environment.
func (a *App) composeReport(
	ctx context.Context,
	env *project.Environment,
	platform *domain.Platform,
) (report domain.EnvironmentReport, err error) {
	_, span := a.tracer.Start(ctx, "compose_environment", environmentAttributes(env, platform)...)
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	if platform != nil {
		if err := env.ValidatePlatformSupport(*platform); err != nil {
			return domain.EnvironmentReport{}, err
		}
	}

	report = domain.EnvironmentReport{
		Name:              env.Name(),
		SolveGroup:        env.SolveGroup(),
		Channels:          channelURLs(env.Channels()),
		Platforms:         env.Platforms().Strings(),
		ActivationScripts: env.ActivationScripts(platform),
	}
	if platform != nil {
		report.Platform = platform.String()
	}

	for _, f := range env.Features() {
		report.Features = append(report.Features, f.Name.String())
	}

	if reqs := env.SystemRequirements(); !reqs.IsEmpty() {
		report.SystemRequirements = &reqs
	}

	kinds := []struct {
		kind domain.SpecType
		dst  *[]domain.RequirementIntent
	}{
		{domain.SpecTypeRun, &report.Dependencies},
		{domain.SpecTypeHost, &report.HostDependencies},
		{domain.SpecTypeBuild, &report.BuildDependencies},
	}
	for _, k := range kinds {
		deps, err := env.Dependencies(&k.kind, platform)
		if err != nil {
			return domain.EnvironmentReport{}, err
		}
		*k.dst = domain.RequirementIntents(deps)
	}

	pypi, err := env.PyPiDependencies(platform)
	if err != nil {
		return domain.EnvironmentReport{}, err
	}
	report.PyPiDependencies = domain.RequirementIntents(pypi)

	tasks, err := env.Tasks(platform)
	if err != nil {
		return domain.EnvironmentReport{}, err
	}
	for name := range tasks {
		report.Tasks = append(report.Tasks, name)
	}
	slices.Sort(report.Tasks)

	span.SetAttribute("channels", len(report.Channels))
	return report, nil
}

func channelURLs(channels []domain.Channel) []string {
	out := make([]string, len(channels))
	for i, c := range channels {
		out[i] = c.URL()
	}
	return out
}

// errEnvironment attaches the environment name to err.
func errEnvironment(err error, env *project.Environment) error {
	return zerr.With(err, "environment", env.Name())
}
