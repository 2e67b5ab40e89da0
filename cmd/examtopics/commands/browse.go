package commands

import (
	"fmt"
	"time"

	"examtopics-viewer/internal/browse/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse <exam>",
	Short: "Browse the questions of an exam in the terminal.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		outcome, err := a.questions(ctx, args[0])
		if err != nil {
			return err
		}
		model := tui.NewModel(outcome.Questions, tui.Options{
			Exam:    args[0],
			BaseUrl: a.cfg.Site.BaseUrl,
			Warning: outcome.Warning,
			Seed:    uint64(time.Now().UnixNano()),
		})
		_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if err != nil {
			return fmt.Errorf("run browser: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
