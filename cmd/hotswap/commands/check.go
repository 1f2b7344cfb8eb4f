package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/hotswap/internal/ui/style"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load every declared definition file once and report the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Check(cmd.Context(), c.dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s %s %s\n",
				style.Success.Render(style.Check),
				style.Heading.Render("mod "+report.Manifest.ID),
				style.Muted.Render(report.Manifest.Root))

			rows := []struct {
				label string
				value int
			}{
				{"actors", report.Stats.Actors},
				{"weapons", report.Stats.Weapons},
				{"units", report.Stats.Units},
				{"sequences", report.Stats.Sequences},
				{"watched", report.Watched},
			}
			for _, row := range rows {
				_, _ = fmt.Fprintf(out, "  %s %d\n", style.KindLabel(row.label), row.value)
			}
			if len(report.Virtual) > 0 {
				_, _ = fmt.Fprintf(out, "  %s %s\n", style.KindLabel("virtual"), strings.Join(report.Virtual, ", "))
			}
			return nil
		},
	}
}
