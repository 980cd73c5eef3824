// Package logging provides the levelled console logger used by the commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"jpeg2epub/internal/tui"
)

const timeLayout = "2006-01-02 15:04:05"

type level struct {
	name  string
	color lipgloss.Color
}

var (
	levelInfo    = level{"INFO", tui.ColorAccentAlt}
	levelSuccess = level{"SUCCESS", tui.ColorSuccess}
	levelWarn    = level{"WARN", tui.ColorWarn}
	levelError   = level{"ERROR", tui.ColorError}
	levelDebug   = level{"DEBUG", tui.ColorDim}
)

// Logger writes timestamped, levelled lines to the console and, optionally,
// to a log file. ERROR lines go to the error stream. Level tags are coloured
// when the console supports it; the file always gets plain text.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	outR    *lipgloss.Renderer
	errR    *lipgloss.Renderer
	file    *os.File
	verbose bool
	now     func() time.Time
}

// New returns a Logger on stdout and stderr. A non-empty logFile is opened
// for appending; call Close when done.
func New(logFile string, verbose bool) (*Logger, error) {
	l := NewWriter(os.Stdout, os.Stderr, verbose)
	if logFile == "" {
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	l.file = f
	return l, nil
}

// NewWriter returns a Logger on the given streams without a file sink.
func NewWriter(out, errOut io.Writer, verbose bool) *Logger {
	return &Logger{
		out:     out,
		errOut:  errOut,
		outR:    lipgloss.NewRenderer(out),
		errR:    lipgloss.NewRenderer(errOut),
		verbose: verbose,
		now:     time.Now,
	}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return NewWriter(io.Discard, io.Discard, false)
}

// Verbose reports whether Debug lines are written.
func (l *Logger) Verbose() bool {
	return l.verbose
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Redirect sends console output to out and errOut until the returned
// function is called. The file sink is unaffected.
func (l *Logger) Redirect(out, errOut io.Writer) (restore func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	prevOut, prevErr, prevOutR, prevErrR := l.out, l.errOut, l.outR, l.errR
	l.out, l.errOut = out, errOut
	l.outR, l.errR = lipgloss.NewRenderer(out), lipgloss.NewRenderer(errOut)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.out, l.errOut, l.outR, l.errR = prevOut, prevErr, prevOutR, prevErrR
	}
}

func (l *Logger) line(lv level, text string) {
	ts := l.now().Format(timeLayout)

	l.mu.Lock()
	defer l.mu.Unlock()

	out, r := l.out, l.outR
	if lv == levelError {
		out, r = l.errOut, l.errR
	}
	tag := r.NewStyle().Bold(true).Foreground(lv.color).Render("[" + lv.name + "]")
	_, _ = io.WriteString(out, ts+" "+tag+" "+text+"\n")
	if l.file != nil {
		_, _ = io.WriteString(l.file, ts+" ["+lv.name+"] "+text+"\n")
	}
}

func (l *Logger) Info(format string, args ...any) {
	l.line(levelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Success(format string, args ...any) {
	l.line(levelSuccess, fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.line(levelWarn, fmt.Sprintf(format, args...))
}

// Error logs to the error stream.
func (l *Logger) Error(format string, args ...any) {
	l.line(levelError, fmt.Sprintf(format, args...))
}

// Debug is a no-op unless the logger is verbose.
func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.line(levelDebug, fmt.Sprintf(format, args...))
}
