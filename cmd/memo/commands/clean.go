package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/memo/internal/app"
	"go.trai.ch/memo/internal/ui/style"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean <object>",
		Short: "Remove cache folders of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, _ := cmd.Flags().GetString("hash")

			removed, err := c.app.Clean(cmd.Context(), app.CleanOptions{
				Object: args[0],
				Hash:   hash,
			})

			out := cmd.OutOrStdout()
			for _, f := range removed {
				_, _ = fmt.Fprintf(out, "%s %s\n", style.Check, f.Path)
			}
			if err == nil && len(removed) == 0 {
				_, _ = fmt.Fprintln(out, style.Muted.Render("nothing to remove"))
			}
			return err
		},
	}

	cmd.Flags().String("hash", "", "Only remove folders whose fingerprint starts with this prefix")

	return cmd
}
