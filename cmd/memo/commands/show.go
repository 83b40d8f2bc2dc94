package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/ui/style"
)

func (c *CLI) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <registry-file>",
		Short: "Print a registry entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := c.app.Show(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderEntry(cmd.OutOrStdout(), entry)
			return nil
		},
	}
}

func renderEntry(out io.Writer, entry *domain.RegistryEntry) {
	fields := [][2]string{
		{"object_name", entry.ObjectName},
		{"hash", entry.Hash.String()},
		{"comment", entry.Comment},
		{"run_tag", entry.RunTag},
		{"cache_folder", entry.CacheFolder},
		{"created_at", entry.CreatedAt},
		{"created_by", entry.CreatedBy},
		{"git_commit", entry.GitCommit},
		{"git_repo", entry.GitRepo},
	}
	width := columnWidth(fields)

	_, _ = fmt.Fprintln(out, style.Header.Render(entry.ObjectName))
	for _, f := range fields {
		value := f[1]
		if f[0] == "hash" {
			value = style.Hash.Render(value)
		}
		_, _ = fmt.Fprintf(out, "  %s  %s\n", style.Key.Render(pad(f[0], width)), value)
	}
}
