// Package commands implements the CLI commands for manifold.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/manifold/internal/app"
	"go.trai.ch/manifold/internal/build"
	"go.trai.ch/manifold/internal/core/domain"
)

// CLI represents the command line interface for manifold.
type CLI struct {
	app       Application
	configure func(GlobalOptions) error
	global    GlobalOptions
	rootCmd   *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Info(ctx context.Context, opts app.InfoOptions) error
	TaskList(ctx context.Context, opts app.TaskListOptions) error
	Run(ctx context.Context, taskName string, opts app.RunOptions) error
	Install(ctx context.Context, opts app.InstallOptions) error
}

// GlobalOptions are the flags shared by every command.
type GlobalOptions struct {
	ManifestPath string
	// Color is empty when the flag was not given.
	Color   domain.ColorMode
	Verbose bool
	LogJSON bool
}

// Option configures a CLI.
type Option func(*CLI)

// WithConfigure sets the function applying the global flags to logging and rendering.
// It runs before every command.
func WithConfigure(fn func(GlobalOptions) error) Option {
	return func(c *CLI) {
		c.configure = fn
	}
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "manifold",
		Short:         "Compose environments from a manifold.toml manifest",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	for _, opt := range opts {
		opt(c)
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.global.ManifestPath, "manifest-path", "", "Path to manifold.toml or its directory")
	flags.String("color", "", "Color output: auto, always or never")
	flags.BoolVarP(&c.global.Verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&c.global.LogJSON, "log-json", false, "Write logs as JSON")

	// Registered after the persistent flags so that -v stays with --verbose.
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if raw, _ := cmd.Flags().GetString("color"); raw != "" {
			mode, err := domain.ParseColorMode(raw)
			if err != nil {
				return err
			}
			c.global.Color = mode
		}
		if c.configure == nil {
			return nil
		}
		return c.configure(c.global)
	}

	rootCmd.AddCommand(c.newInfoCmd())
	rootCmd.AddCommand(c.newTaskCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func addEnvironmentFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("environment", "e", "", "Environment to use (default: default)")
}

func addPlatformFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("platform", "p", "", "Platform to compose for, e.g. linux-64")
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().String("format", string(domain.FormatPretty), "Output format: pretty, json or yaml")
}

func addLockFileFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("frozen", false, "Use the persisted intent without checking it against the manifest")
	cmd.Flags().Bool("locked", false, "Fail if the persisted intent is out of date with the manifest")
	cmd.MarkFlagsMutuallyExclusive("frozen", "locked")
}

func lockFileUsage(cmd *cobra.Command) (domain.LockFileUsage, error) {
	frozen, _ := cmd.Flags().GetBool("frozen")
	locked, _ := cmd.Flags().GetBool("locked")
	return domain.NewLockFileUsage(frozen, locked)
}

func outputFormat(cmd *cobra.Command) (domain.OutputFormat, error) {
	format, _ := cmd.Flags().GetString("format")
	return domain.ParseOutputFormat(format)
}
