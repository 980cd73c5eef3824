package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"jpeg2epub/internal/config"
	"jpeg2epub/internal/logging"
	"jpeg2epub/internal/magick"
	"jpeg2epub/internal/processor"
	"jpeg2epub/internal/tui"
)

var (
	buildInputFile  string
	buildInputDir   string
	buildName       string
	buildCut        string
	buildResize     string
	buildProfile    string
	buildKeep       string
	buildBorders    bool
	buildThreshold  int
	buildSamplePage int
	buildJobs       int
	buildLang       string
	buildOutputDir  string
	buildKeepBuild  bool
	buildStrip      bool
	buildQuality    int
	buildPlain      bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build an EPUB from a folder or zip archive of JPEG pages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if buildInputFile == "" && buildInputDir == "" {
			return processor.ErrNoInput
		}

		settings, cfgDir, err := loadSettings()
		if err != nil {
			return err
		}
		applyBuildSettings(cmd, settings)

		log, err := newLogger(settings)
		if err != nil {
			return err
		}
		defer log.Close()

		transform, err := buildTransform(cmd, config.NewProfiles(cfgDir), log)
		if err != nil {
			return err
		}

		opts := processor.Options{
			InputFile:  buildInputFile,
			InputDir:   buildInputDir,
			Name:       config.BookName(buildName, buildInputFile, buildInputDir),
			OutputDir:  buildOutputDir,
			Transform:  transform,
			Borders:    buildBorders,
			Threshold:  buildThreshold,
			SamplePage: buildSamplePage,
			Jobs:       buildJobs,
			Language:   buildLang,
			KeepBuild:  buildKeepBuild,
			Tools: processor.Tools{
				Magick: settings.Magick,
				Zip:    settings.Zip,
				Unzip:  settings.Unzip,
			},
			Logger: log,
		}
		log.Debug("cut %q, resize %s, jobs %d", transform.Cut.String(), transform.Resize, opts.Jobs)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		var summary processor.Summary
		if buildPlain || !isatty.IsTerminal(os.Stdout.Fd()) {
			summary, err = processor.Run(ctx, opts, nil)
		} else {
			summary, err = runWithProgress(ctx, cancel, opts, log)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return fmt.Errorf("build interrupted: %w", err)
			}
			return err
		}

		fmt.Fprintln(os.Stdout, tui.RenderSummary(summaryRows(summary)))
		log.Success("book written to %s", summary.Output)
		return nil
	},
}

// runWithProgress runs the pipeline behind the progress view. Log lines are
// printed above the view while it runs. Quitting the view cancels the build.
func runWithProgress(ctx context.Context, cancel context.CancelFunc, opts processor.Options, log *logging.Logger) (processor.Summary, error) {
	updates := make(chan processor.ProgressUpdate, 64)
	program := tea.NewProgram(tui.NewModel(opts.Name, updates), tea.WithContext(ctx))

	w := tui.ProgramWriter{Program: program}
	restore := log.Redirect(w, w)
	defer restore()

	uiDone := make(chan struct{})
	go func() {
		defer close(uiDone)
		_, _ = program.Run()
		cancel()
		for range updates {
		}
	}()

	summary, err := processor.Run(ctx, opts, updates)
	close(updates)
	<-uiDone
	return summary, err
}

// applyBuildSettings fills unset flags from the settings file.
func applyBuildSettings(cmd *cobra.Command, s config.Settings) {
	flags := cmd.Flags()
	if !flags.Changed("threshold") {
		buildThreshold = s.Threshold
	}
	if !flags.Changed("jobs") {
		buildJobs = s.Jobs
	}
	if !flags.Changed("lang") {
		buildLang = s.Language
	}
	if !flags.Changed("quality") {
		buildQuality = s.Quality
	}
}

// buildTransform resolves crop and resize from the flags and an optional
// saved profile; explicit flags win over the profile. With --keep the
// result is saved under that profile name.
func buildTransform(cmd *cobra.Command, profiles *config.Profiles, log *logging.Logger) (magick.Transform, error) {
	cut, err := config.ParseCut(buildCut)
	if err != nil {
		return magick.Transform{}, err
	}
	resize, err := config.ParseResize(buildResize)
	if err != nil {
		return magick.Transform{}, err
	}

	if buildProfile != "" {
		prof, err := profiles.Load(buildProfile)
		if err != nil {
			return magick.Transform{}, err
		}
		if !cmd.Flags().Changed("cut") {
			cut = prof.Cut
		}
		if !cmd.Flags().Changed("resize") {
			resize = prof.Resize
		}
		log.Info("using profile %s: cut %s, resize %s", buildProfile, cut, resize)
	}

	if buildKeep != "" {
		if err := profiles.Save(buildKeep, config.Profile{Cut: cut, Resize: resize}); err != nil {
			return magick.Transform{}, err
		}
		log.Success("saved profile %s", buildKeep)
	}

	if buildQuality < 0 || buildQuality > 100 {
		return magick.Transform{}, fmt.Errorf("quality must be within 0..100, got %d", buildQuality)
	}
	return magick.Transform{Cut: cut, Resize: resize, Quality: buildQuality, Strip: buildStrip}, nil
}

func summaryRows(s processor.Summary) []tui.SummaryRow {
	rows := []tui.SummaryRow{
		{Label: "Pages", Value: fmt.Sprintf("%d", s.Pages)},
		{Label: "Converted", Value: fmt.Sprintf("%d", s.Converted)},
		{Label: "Auto-oriented", Value: fmt.Sprintf("%d", s.AutoOrient)},
		{Label: "Crop (t r b l)", Value: s.Cut.String()},
	}
	if s.Margins.Top != 0 || s.Margins.Bottom != 0 {
		rows = append(rows, tui.SummaryRow{
			Label: "Detected borders",
			Value: fmt.Sprintf("top %d, bottom %d", s.Margins.Top, s.Margins.Bottom),
		})
	}
	if s.BuildDir != "" {
		rows = append(rows, tui.SummaryRow{Label: "Build directory", Value: s.BuildDir})
	}
	rows = append(rows,
		tui.SummaryRow{Label: "Output", Value: s.Output},
		tui.SummaryRow{Label: "Elapsed", Value: s.Elapsed.Round(time.Millisecond).String()},
	)
	return rows
}

func init() {
	f := buildCmd.Flags()
	f.StringVarP(&buildInputFile, "input-file", "i", "", "zip archive with the pages")
	f.StringVarP(&buildInputDir, "input-dir", "I", "", "directory with the pages")
	f.StringVarP(&buildName, "name", "n", "", "book title and output file name (default: input name)")
	f.StringVar(&buildCut, "cut", "", `pixels to cut from each edge: "top right bottom left"`)
	f.StringVar(&buildResize, "resize", "", `bounding box for the pages: "width height"`)
	f.StringVarP(&buildProfile, "profile", "p", "", "load cut and resize from a saved profile")
	f.StringVar(&buildKeep, "keep", "", "save cut and resize as a profile with this name")
	f.BoolVar(&buildBorders, "borders", false, "detect top and bottom scanner borders on a sample page")
	f.IntVar(&buildThreshold, "threshold", config.DefaultSettings().Threshold, "border detection threshold in percent (0..100)")
	f.IntVar(&buildSamplePage, "sample-page", 0, "index of the page used for border detection")
	f.IntVarP(&buildJobs, "jobs", "j", 0, "concurrent conversions (0: one per CPU)")
	f.StringVar(&buildLang, "lang", config.DefaultSettings().Language, "book language")
	f.StringVarP(&buildOutputDir, "output", "o", "", "directory for the finished book (default: current directory)")
	f.BoolVar(&buildKeepBuild, "keep-build", false, "keep the temporary build directory")
	f.BoolVar(&buildStrip, "strip", false, "strip profiles and comments from the pages")
	f.IntVar(&buildQuality, "quality", 0, "JPEG quality of the converted pages (0: tool default)")
	f.BoolVar(&buildPlain, "plain", false, "log lines only, no progress view")

	buildCmd.MarkFlagsMutuallyExclusive("input-file", "input-dir")

	rootCmd.AddCommand(buildCmd)
}
