package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"examtopics-viewer/internal/export"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <exam>",
	Short: "Export the questions of an exam to a PDF document.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		code := args[0]
		outcome, err := a.questions(ctx, code)
		if err != nil {
			return err
		}

		opts := a.cfg.exportOptions()
		opts.Progress = func(done, total int) {
			if done%25 == 0 || done == total {
				fmt.Fprintf(os.Stderr, "\rrendered %d/%d questions", done, total)
			}
		}
		doc, err := export.Export(ctx, outcome.Questions, a.imageSource(), opts, a.tel)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("export questions: %w", err)
		}

		path := exportOut
		if path == "" {
			path = exportFilename(code)
		}
		err = os.WriteFile(path, doc, 0644)
		if err != nil {
			return fmt.Errorf("write document: %w", err)
		}
		fmt.Printf("Exported %d questions to %s.\n", len(outcome.Questions), path)
		return nil
	},
}

func exportFilename(code string) string {
	name := strings.ReplaceAll(strings.TrimSpace(code), string(filepath.Separator), "_")
	return fmt.Sprintf("%s_questions.pdf", name)
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "The output file, defaults to <exam>_questions.pdf.")
	rootCmd.AddCommand(exportCmd)
}
