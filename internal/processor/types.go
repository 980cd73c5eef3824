package processor

import (
	"time"

	"jpeg2epub/internal/border"
	"jpeg2epub/internal/config"
	"jpeg2epub/internal/magick"
)

// Stage names the pipeline step a ProgressUpdate belongs to.
type Stage string

const (
	StageExtract Stage = "extracting"
	StageScan    Stage = "scanning"
	StageConvert Stage = "converting"
	StagePack    Stage = "packing"
)

// Logger receives pipeline messages. *logging.Logger satisfies it.
type Logger interface {
	Info(format string, args ...any)
	Error(format string, args ...any)
	Debug(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) Debug(string, ...any) {}

// Tools names the external binaries the pipeline runs.
type Tools struct {
	Magick string
	Zip    string
	Unzip  string
}

type Options struct {
	// Exactly one of InputFile (a zip archive) or InputDir is used; InputFile
	// wins when both are set.
	InputFile string
	InputDir  string
	// Name is the book title and the output file stem.
	Name string
	// OutputDir receives <Name>.epub. Empty means the working directory.
	OutputDir string

	Transform magick.Transform

	// Borders replaces the top and bottom crop with margins detected on the
	// page at SamplePage.
	Borders    bool
	Threshold  int
	SamplePage int

	Jobs      int
	Language  string
	KeepBuild bool
	Tools     Tools
	Logger    Logger
}

type Summary struct {
	Pages     int
	Converted int
	Failed    int
	// Margins are the detected borders; zero unless Options.Borders is set.
	Margins border.Margins
	// Cut is the crop actually applied to every page.
	Cut        config.CropMargin
	AutoOrient int
	Identifier string
	Output     string
	BuildDir   string
	Elapsed    time.Duration
}

// ProgressUpdate carries counter deltas for the progress view. A non-empty
// Stage announces the step that starts next.
type ProgressUpdate struct {
	Stage          Stage
	TotalDelta     int
	StartedDelta   int
	FinishedDelta  int
	ConvertedDelta int
	FailedDelta    int
}
