package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"jpeg2epub/internal/border"
	"jpeg2epub/internal/config"
	"jpeg2epub/internal/tui"
)

var bordersThreshold int

var bordersCmd = &cobra.Command{
	Use:   "borders <page.jpg>...",
	Short: "Report the scanner borders detected on JPEG pages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("threshold") {
			settings, _, err := loadSettings()
			if err != nil {
				return err
			}
			bordersThreshold = settings.Threshold
		}

		var failed int
		for i, path := range args {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			fmt.Fprintln(os.Stdout, bordersFileStyle.Render(path))

			m, err := border.DetectFile(path, bordersThreshold)
			if err != nil {
				failed++
				fmt.Fprintf(os.Stdout, "  %s %s\n", bordersBulletStyle.Render("-"), bordersErrorStyle.Render(err.Error()))
				continue
			}
			cut := config.CropMargin{Top: m.Top, Bottom: m.Bottom}
			fmt.Fprintf(os.Stdout, "  %s %s\n", bordersBulletStyle.Render("-"),
				bordersValueStyle.Render(fmt.Sprintf("top %d, bottom %d", m.Top, m.Bottom)))
			fmt.Fprintf(os.Stdout, "  %s %s\n", bordersBulletStyle.Render("-"),
				bordersDimStyle.Render(fmt.Sprintf("--cut %q", cut.String())))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d pages could not be analysed", failed, len(args))
		}
		return nil
	},
}

var (
	bordersFileStyle   = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	bordersValueStyle  = lipgloss.NewStyle().Foreground(tui.ColorInk)
	bordersErrorStyle  = lipgloss.NewStyle().Foreground(tui.ColorError)
	bordersDimStyle    = lipgloss.NewStyle().Foreground(tui.ColorDim)
	bordersBulletStyle = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	bordersCmd.Flags().IntVar(&bordersThreshold, "threshold", border.DefaultThreshold, "detection threshold in percent (0..100)")
	rootCmd.AddCommand(bordersCmd)
}
