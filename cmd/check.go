package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"jpeg2epub/internal/config"
	"jpeg2epub/internal/tui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the external tools and working directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, dir, err := loadSettings()
		if err != nil {
			return err
		}

		checks := config.RunChecks(settings, dir)
		for _, c := range checks {
			if c.Err != nil {
				fmt.Fprintf(os.Stdout, "%s %s %s\n", checkFailStyle.Render("✗"), checkNameStyle.Render(c.Name), checkDimStyle.Render(c.Err.Error()))
				continue
			}
			fmt.Fprintf(os.Stdout, "%s %s %s\n", checkOKStyle.Render("✓"), checkNameStyle.Render(c.Name), checkDimStyle.Render(c.Detail))
		}
		return config.FirstFailure(checks)
	},
}

var (
	checkOKStyle   = lipgloss.NewStyle().Foreground(tui.ColorSuccess)
	checkFailStyle = lipgloss.NewStyle().Foreground(tui.ColorError)
	checkNameStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorInk)
	checkDimStyle  = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	rootCmd.AddCommand(checkCmd)
}
