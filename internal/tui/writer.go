package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type logLineMsg string

// ProgramWriter prints what is written to it above the view of a running
// program, one message per line. Writes after the program exited are
// dropped.
type ProgramWriter struct {
	Program *tea.Program
}

func (w ProgramWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		w.Program.Send(logLineMsg(line))
	}
	return len(p), nil
}
