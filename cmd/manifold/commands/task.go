package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/manifold/internal/app"
)

func (c *CLI) newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Inspect the tasks of an environment",
	}
	cmd.AddCommand(c.newTaskListCmd())
	return cmd
}

func (c *CLI) newTaskListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the effective tasks of an environment",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			environment, _ := cmd.Flags().GetString("environment")
			platform, _ := cmd.Flags().GetString("platform")

			return c.app.TaskList(cmd.Context(), app.TaskListOptions{
				ManifestPath: c.global.ManifestPath,
				Environment:  environment,
				Platform:     platform,
				Format:       format,
			})
		},
	}
	addEnvironmentFlag(cmd)
	addPlatformFlag(cmd)
	addFormatFlag(cmd)
	return cmd
}
