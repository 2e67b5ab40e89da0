package commands

import (
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <exam>",
	Short: "Print a summary table of the questions of an exam.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		outcome, err := a.questions(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Question", "Answers", "Most voted", "Comments"})
		for _, q := range outcome.Questions {
			mostVoted := "-"
			if q.MostVoted != "" {
				mostVoted = strings.Join(q.MostVoted.Labels(), ", ")
			}
			t.AppendRow(table.Row{q.Number, len(q.Answers), mostVoted, len(q.Comments)})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
