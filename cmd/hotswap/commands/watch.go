package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/hotswap/internal/adapters/config"
	"go.trai.ch/hotswap/internal/app"
)

func (c *CLI) newWatchCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the simulation and hot-reload definition files as they change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Watch(cmd.Context(), app.WatchOptions{
				Dir:            c.dir,
				Debounce:       c.values.Debounce,
				Tick:           c.values.Tick,
				MetricsAddress: c.values.MetricsAddress,
			})
		},
	}
	if err := c.settings.BindFlags(cmd.Flags(), config.WatchOptions); err != nil {
		return nil, err
	}
	return cmd, nil
}
