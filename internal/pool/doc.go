// Package pool runs a batch of external commands with bounded parallelism.
//
// Each Job is one invocation of the same command with its own argument
// vector. Run starts jobs in list order on at most Limit concurrent
// processes, starting the next queued job as soon as a running one exits, and
// returns once every started job has exited. Jobs share no state, so they
// may finish in any order.
//
// A process that cannot be started (missing binary, permissions) aborts the
// batch: no further jobs are started and a *SpawnError is returned after the
// running ones exit. A process that exits with a failure status does not stop
// the batch; every such failure is reported as an *ExitError once all jobs
// are done.
package pool
