package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/memo/internal/ui/style"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <object>",
		Short: "List the cache folders of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folders, err := c.app.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(folders) == 0 {
				_, _ = fmt.Fprintln(out, style.Muted.Render("no cache folders for "+args[0]))
				return nil
			}

			_, _ = fmt.Fprintln(out, style.Header.Render(fmt.Sprintf("%s (%d)", args[0], len(folders))))
			rows := make([][2]string, 0, len(folders))
			for _, f := range folders {
				tag := f.RunTag
				if tag == "" {
					tag = "-"
				}
				rows = append(rows, [2]string{tag, f.Fingerprint.Short()})
			}
			width := columnWidth(rows)
			for i, f := range folders {
				_, _ = fmt.Fprintf(out, "  %s %s  %s  %s\n",
					style.Dot,
					pad(rows[i][0], width),
					style.Hash.Render(rows[i][1]),
					style.Muted.Render(f.Path),
				)
			}
			return nil
		},
	}
}
