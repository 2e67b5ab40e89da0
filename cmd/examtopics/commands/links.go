package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var linksCmd = &cobra.Command{
	Use:   "links <exam>",
	Short: "Discover the discussion links of an exam.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		links, err := a.client.Discover(cmd.Context(), args[0], func(done, total int) {
			slog.Info("extracting question links", "page", done, "of", total)
		})
		if err != nil {
			return fmt.Errorf("discover links: %w", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"#", "Link"})
		for i, link := range links {
			t.AppendRow(table.Row{i + 1, link})
		}
		t.AppendFooter(table.Row{"", len(links)})
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linksCmd)
}
