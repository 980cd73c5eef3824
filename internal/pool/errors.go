package pool

import (
	"errors"
	"fmt"
)

// ErrSkipped marks jobs that were never started because the batch was
// aborted or its context was cancelled.
var ErrSkipped = errors.New("pool: job not started")

// SpawnError reports that the process for a job could not be started.
type SpawnError struct {
	Index   int
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("pool: start %s for job %d: %v", e.Command, e.Index, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExitError reports that a job's process ran but did not exit cleanly.
type ExitError struct {
	Index int
	Err   error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("pool: job %d failed: %v", e.Index, e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

// IsSpawn reports whether err carries a *SpawnError.
func IsSpawn(err error) bool {
	var se *SpawnError
	return errors.As(err, &se)
}
