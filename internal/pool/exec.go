package pool

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// stderrTail bounds how much of a process's stderr is kept for error reports.
const stderrTail = 4 << 10

// Process is a started command. Wait blocks until it exits.
type Process interface {
	Wait() error
}

// Launcher starts processes. Start must not block until the process exits.
type Launcher interface {
	Start(ctx context.Context, name string, args []string) (Process, error)
}

// ExecLauncher starts real OS processes. Stdout is discarded; the tail of
// stderr is attached to the error of a failed process. A non-empty Dir runs
// the process in that directory instead of the caller's.
type ExecLauncher struct {
	Dir string
}

func (l ExecLauncher) Start(ctx context.Context, name string, args []string) (Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = l.Dir
	tail := &tailWriter{max: stderrTail}
	cmd.Stderr = tail

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd, stderr: tail}, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stderr *tailWriter
}

func (p *execProcess) Wait() error {
	err := p.cmd.Wait()
	if err == nil {
		return nil
	}
	if msg := strings.TrimSpace(p.stderr.String()); msg != "" {
		return fmt.Errorf("%w: %s", err, msg)
	}
	return err
}

// tailWriter keeps the last max bytes written to it.
type tailWriter struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func (w *tailWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	if over := len(w.buf) - w.max; over > 0 {
		w.buf = append(w.buf[:0], w.buf[over:]...)
	}
	return len(p), nil
}

func (w *tailWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return string(w.buf)
}
