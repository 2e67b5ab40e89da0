package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <exam>",
	Short: "Scrape every question of an exam into the cache.",
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
		fmt.Printf("%d questions of %s loaded from %s (%s).\n", len(outcome.Questions), args[0], outcome.Source, outcome.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}
