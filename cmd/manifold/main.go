// Package main is the entry point for the manifold CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/manifold/cmd/manifold/commands"
	"go.trai.ch/manifold/internal/adapters/detector"
	"go.trai.ch/manifold/internal/app"
	_ "go.trai.ch/manifold/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

// presenter is implemented by adapters whose output the global flags control.
type presenter interface {
	SetColor(enable bool)
}

type logSwitches interface {
	SetVerbose(enable bool)
	SetJSON(enable bool)
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr passed in
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	// Apply options
	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	cli := commands.New(components.App, commands.WithConfigure(configure(components)))
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}

// configure applies the user settings and the global flags to logging and rendering.
// Flags take precedence over settings.
func configure(components *app.Components) func(commands.GlobalOptions) error {
	return func(opts commands.GlobalOptions) error {
		userSettings, err := components.Settings.Load()
		if err != nil {
			return err
		}

		mode := opts.Color
		if mode == "" {
			mode = userSettings.Color
		}
		color := detector.ResolveColor(detector.DetectColor(os.Stderr), mode)

		if l, ok := components.Logger.(logSwitches); ok {
			l.SetVerbose(opts.Verbose)
			l.SetJSON(opts.LogJSON || userSettings.LogJSON())
		}
		if p, ok := components.Logger.(presenter); ok {
			p.SetColor(color)
		}
		if p, ok := components.Renderer.(presenter); ok {
			p.SetColor(detector.ResolveColor(detector.DetectColor(os.Stdout), mode))
		}
		return nil
	}
}
