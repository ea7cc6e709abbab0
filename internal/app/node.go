package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/manifold/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/manifold/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/manifold/internal/adapters/render"    //nolint:depguard // Wired in app layer
	"go.trai.ch/manifold/internal/adapters/settings"  //nolint:depguard // Wired in app layer
	"go.trai.ch/manifold/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/manifold/internal/adapters/store"     //nolint:depguard // Wired in app layer
	"go.trai.ch/manifold/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/manifold/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/manifold/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			shell.NodeID,
			store.NodeID,
			render.NodeID,
			watcher.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			render.NodeID,
			settings.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	intentStore, err := graft.Dep[ports.IntentStore](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	fileWatcher, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, executor, intentStore, renderer, fileWatcher, tracer, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	userSettings, err := graft.Dep[ports.SettingsLoader](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:      app,
		Logger:   log,
		Renderer: renderer,
		Settings: userSettings,
	}, nil
}
