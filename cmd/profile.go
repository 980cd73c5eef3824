package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jpeg2epub/internal/config"
	"jpeg2epub/internal/tui"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect saved crop and resize profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		names, err := config.NewProfiles(dir).List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(os.Stdout, "no profiles saved; create one with build --keep <name>")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(os.Stdout, name)
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the cut and resize stored in a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		prof, err := config.NewProfiles(dir).Load(args[0])
		if err != nil {
			return err
		}

		resize := "off"
		if prof.Resize.Enabled() {
			resize = prof.Resize.String()
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary([]tui.SummaryRow{
			{Label: "Profile", Value: args[0]},
			{Label: "Cut (t r b l)", Value: prof.Cut.String()},
			{Label: "Resize", Value: resize},
		}))
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileListCmd, profileShowCmd)
	rootCmd.AddCommand(profileCmd)
}
