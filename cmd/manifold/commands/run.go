package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/manifold/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [task]",
		Short: "Run a task and the tasks it depends on",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			usage, err := lockFileUsage(cmd)
			if err != nil {
				return err
			}
			environment, _ := cmd.Flags().GetString("environment")
			platform, _ := cmd.Flags().GetString("platform")

			return c.app.Run(cmd.Context(), args[0], app.RunOptions{
				ManifestPath:  c.global.ManifestPath,
				Environment:   environment,
				Platform:      platform,
				LockFileUsage: usage,
			})
		},
	}
	addEnvironmentFlag(cmd)
	addPlatformFlag(cmd)
	addLockFileFlags(cmd)
	return cmd
}
