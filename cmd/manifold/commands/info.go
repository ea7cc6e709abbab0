package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/manifold/internal/app"
)

func (c *CLI) newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the composed configuration of environments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			environments, _ := cmd.Flags().GetStringArray("environment")
			platform, _ := cmd.Flags().GetString("platform")
			watch, _ := cmd.Flags().GetBool("watch")

			return c.app.Info(cmd.Context(), app.InfoOptions{
				ManifestPath: c.global.ManifestPath,
				Environments: environments,
				Platform:     platform,
				Format:       format,
				Watch:        watch,
			})
		},
	}
	cmd.Flags().StringArrayP("environment", "e", nil, "Environment to show, may be repeated (default: all)")
	addPlatformFlag(cmd)
	addFormatFlag(cmd)
	cmd.Flags().BoolP("watch", "w", false, "Re-render whenever the manifest changes")
	return cmd
}
