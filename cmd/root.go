package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jpeg2epub/internal/config"
	"jpeg2epub/internal/logging"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "jpeg2epub",
	Short: "jpeg2epub 📖 - turn scanned JPEG pages into an EPUB",
	Long: "jpeg2epub 📖 orders a folder or zip archive of scanned JPEG pages, " +
		"optionally trims scanner borders, converts the pages with ImageMagick " +
		"in parallel and packs them into an EPUB 3 book.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

// loadSettings returns the effective settings and the config directory.
func loadSettings() (config.Settings, string, error) {
	dir, err := config.Dir()
	if err != nil {
		return config.Settings{}, "", err
	}
	s, err := config.LoadSettings(dir)
	if err != nil {
		return config.Settings{}, "", err
	}
	return s, dir, nil
}

func newLogger(s config.Settings) (*logging.Logger, error) {
	return logging.New(s.LogFile, verbose)
}
