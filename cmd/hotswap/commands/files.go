package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/hotswap/internal/app"
	"go.trai.ch/hotswap/internal/ui/style"
)

const noFingerprint = "----------------"

func (c *CLI) newFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List the declared definition files and how they are watched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := c.app.Files(cmd.Context(), c.dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				_, _ = fmt.Fprintf(out, "%s %s %s %s\n",
					style.KindLabel(e.Kind.String()),
					fingerprint(e),
					e.LogicalID,
					status(e))
			}
			return nil
		},
	}
}

func fingerprint(e app.FileEntry) string {
	if e.Fingerprint == "" {
		return style.Muted.Render(noFingerprint)
	}
	return e.Fingerprint
}

func status(e app.FileEntry) string {
	switch {
	case !e.Exists:
		return style.Failure.Render(style.Cross + " missing")
	case e.Virtual():
		return style.Muted.Render(style.Dash + " virtual")
	default:
		return style.Success.Render(style.Eye + " watched")
	}
}
