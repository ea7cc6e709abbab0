package app

import (
	"context"
	"fmt"

	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/manifold/internal/core/ports"
	"go.trai.ch/manifold/internal/core/project"
	"go.trai.ch/zerr"
)

// IntentStatus is the outcome of reconciling an environment's intent with the persisted snapshot.
type IntentStatus uint8

const (
	// IntentUpToDate means the persisted snapshot matches the manifest.
	IntentUpToDate IntentStatus = iota
	// IntentUpdated means a new snapshot was written.
	IntentUpdated
	// IntentFrozen means the persisted snapshot was used without comparing it.
	IntentFrozen
)

// InstallOptions configures the Install method.
type InstallOptions struct {
	ManifestPath  string
	Environment   string
	LockFileUsage domain.LockFileUsage
}

// Install reconciles the declared intent of one environment with the snapshot in its directory.
func (a *App) Install(ctx context.Context, opts InstallOptions) error {
	p, err := a.loadProject(ctx, opts.ManifestPath)
	if err != nil {
		return err
	}

	env, err := p.LookupEnvironment(opts.Environment)
	if err != nil {
		return err
	}

	status, err := a.reconcile(ctx, env, opts.LockFileUsage)
	if err != nil {
		return err
	}

	switch status {
	case IntentUpdated:
		a.logger.Info(fmt.Sprintf("environment '%s' intent updated", env.Name()))
	case IntentFrozen:
		a.logger.Info(fmt.Sprintf("environment '%s' uses the persisted intent", env.Name()))
	default:
		a.logger.Info(fmt.Sprintf("environment '%s' is up to date", env.Name()))
	}
	return nil
}

// reconcile applies usage to the environment's intent snapshot.
func (a *App) reconcile(
	ctx context.Context,
	env *project.Environment,
	usage domain.LockFileUsage,
) (status IntentStatus, err error) {
	_, span := a.tracer.Start(ctx, "reconcile_intent",
		ports.WithAttribute("environment", env.Name()),
		ports.WithAttribute("lock_file_usage", usage),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	stored, err := a.store.Get(env.Dir())
	if err != nil {
		return 0, err
	}

	if !usage.ShouldCheckIfOutOfDate() {
		if stored == nil {
			return 0, errEnvironment(domain.ErrIntentNotFound, env)
		}
		return IntentFrozen, nil
	}

	snapshot, err := BuildSnapshot(env)
	if err != nil {
		return 0, err
	}
	want, err := a.store.Fingerprint(&snapshot)
	if err != nil {
		return 0, err
	}

	if stored != nil {
		got, err := a.store.Fingerprint(stored)
		if err != nil {
			return 0, err
		}
		if got == want {
			span.SetAttribute("status", "up_to_date")
			return IntentUpToDate, nil
		}
	}

	if !usage.AllowsLockFileUpdates() {
		err := errEnvironment(domain.ErrIntentOutOfDate, env)
		if stored == nil {
			err = zerr.With(err, "reason", "no snapshot persisted")
		}
		return 0, err
	}

	if err := a.store.Put(env.Dir(), &snapshot); err != nil {
		return 0, err
	}
	span.SetAttribute("status", "updated")
	return IntentUpdated, nil
}

// BuildSnapshot computes the declared intent of env for every platform it supports.
func BuildSnapshot(env *project.Environment) (domain.IntentSnapshot, error) {
	platforms := env.Platforms().Sorted()

	snapshot := domain.IntentSnapshot{
		Environment:        env.Name(),
		Channels:           channelURLs(env.Channels()),
		Platforms:          env.Platforms().Strings(),
		SystemRequirements: env.SystemRequirements(),
		Targets:            make([]domain.PlatformIntent, 0, len(platforms)),
	}

	for _, platform := range platforms {
		deps, err := env.Dependencies(nil, &platform)
		if err != nil {
			return domain.IntentSnapshot{}, err
		}
		pypi, err := env.PyPiDependencies(&platform)
		if err != nil {
			return domain.IntentSnapshot{}, err
		}
		snapshot.Targets = append(snapshot.Targets, domain.PlatformIntent{
			Platform:         platform.String(),
			Dependencies:     domain.RequirementIntents(deps),
			PyPiDependencies: domain.RequirementIntents(pypi),
		})
	}
	return snapshot, nil
}
