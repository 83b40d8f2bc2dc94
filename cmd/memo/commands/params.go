package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/ui/style"
)

func (c *CLI) newParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params <cache-folder>",
		Short: "Print the parameter snapshot of a cache folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := c.app.Params(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			title := snapshot.ObjectName + " " + style.Hash.Render(snapshot.Fingerprint.String())
			if snapshot.RunTag != "" {
				title += style.Muted.Render(" (" + snapshot.RunTag + ")")
			}
			_, _ = fmt.Fprintln(out, style.Header.Render(title))

			names := make([][2]string, 0, len(snapshot.Fields))
			for _, f := range snapshot.Fields {
				names = append(names, [2]string{f.Name})
			}
			width := columnWidth(names)

			for _, f := range snapshot.Fields {
				_, _ = fmt.Fprintf(out, "  %s  %s\n", style.Key.Render(pad(f.Name, width)), describeField(f))
			}
			return nil
		},
	}
}

func describeField(f domain.SnapshotField) string {
	if f.Kind == domain.FieldDependency {
		name := f.ObjectName
		if f.RunTag != "" {
			name += " (" + f.RunTag + ")"
		}
		return name + " " + style.Hash.Render(f.Fingerprint.Short())
	}
	value := f.Value
	if value == "" && f.Digest != "" {
		value = style.Muted.Render("<binary>")
	}
	return value + " " + style.Muted.Render("sha1:"+shortDigest(f.Digest))
}

func shortDigest(d string) string {
	if len(d) > 8 {
		return d[:8]
	}
	return d
}
