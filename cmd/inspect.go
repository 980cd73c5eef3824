package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jpeg2epub/internal/epub"
	"jpeg2epub/internal/tui"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <book.epub>",
	Short: "Summarise a built EPUB",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := epub.Inspect(args[0])
		if err != nil {
			return err
		}
		cover := s.Cover
		if cover == "" {
			cover = "none"
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary([]tui.SummaryRow{
			{Label: "Title", Value: s.Title},
			{Label: "Language", Value: s.Language},
			{Label: "Identifier", Value: s.Identifier},
			{Label: "EPUB version", Value: s.Version},
			{Label: "Pages", Value: fmt.Sprintf("%d", s.Pages)},
			{Label: "Images", Value: fmt.Sprintf("%d", s.Images)},
			{Label: "Cover", Value: cover},
		}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
