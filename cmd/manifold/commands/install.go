package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/manifold/internal/app"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Reconcile the declared intent of an environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			usage, err := lockFileUsage(cmd)
			if err != nil {
				return err
			}
			environment, _ := cmd.Flags().GetString("environment")

			return c.app.Install(cmd.Context(), app.InstallOptions{
				ManifestPath:  c.global.ManifestPath,
				Environment:   environment,
				LockFileUsage: usage,
			})
		},
	}
	addEnvironmentFlag(cmd)
	addLockFileFlags(cmd)
	return cmd
}
