package pool

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"
)

// Job is one invocation of the batch command.
type Job struct {
	Index int
	Argv  []string
}

// Result is the outcome of one Job.
type Result struct {
	Index    int
	Err      error
	Duration time.Duration
}

// Progress carries counter deltas for a progress display.
type Progress struct {
	Started  int
	Finished int
	Failed   int
}

// Pool runs jobs on at most Limit concurrent processes. A Limit of zero or
// less means one process per available CPU.
type Pool struct {
	Launcher Launcher
	Limit    int
}

// New returns a Pool backed by launcher.
func New(launcher Launcher, limit int) *Pool {
	return &Pool{Launcher: launcher, Limit: limit}
}

// Workers returns the number of processes Run keeps alive for n jobs.
func (p *Pool) Workers(n int) int {
	limit := p.Limit
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	if n < limit {
		return n
	}
	return limit
}

// Run executes command once per job and returns when all started jobs have
// exited. Results are returned in job order. updates, when non-nil, receives
// a Progress delta for every start and finish.
func (p *Pool) Run(ctx context.Context, command string, jobs []Job, updates chan<- Progress) ([]Result, error) {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}

	queue := make(chan int)
	stop := make(chan struct{})
	var (
		stopOnce sync.Once
		spawnErr error
	)
	abort := func(err error) {
		stopOnce.Do(func() {
			spawnErr = err
			close(stop)
		})
	}

	workers := p.Workers(len(jobs))
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range queue {
				if stopped(ctx, stop) {
					results[idx] = Result{Index: jobs[idx].Index, Err: ErrSkipped}
					continue
				}
				res := p.runJob(ctx, command, jobs[idx], updates)
				results[idx] = res
				if IsSpawn(res.Err) {
					abort(res.Err)
				}
			}
		}()
	}

	sent := feed(ctx, queue, stop, len(jobs))
	close(queue)
	wg.Wait()

	for i := sent; i < len(jobs); i++ {
		results[i] = Result{Index: jobs[i].Index, Err: ErrSkipped}
	}

	if spawnErr != nil {
		return results, spawnErr
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return results, errors.Join(errs...)
}

// feed hands job indexes to the workers in order until all are taken or the
// batch is stopped. It returns how many were handed out.
func feed(ctx context.Context, queue chan<- int, stop <-chan struct{}, n int) int {
	for i := 0; i < n; i++ {
		if stopped(ctx, stop) {
			return i
		}
		select {
		case queue <- i:
		case <-stop:
			return i
		case <-ctx.Done():
			return i
		}
	}
	return n
}

func stopped(ctx context.Context, stop <-chan struct{}) bool {
	select {
	case <-stop:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (p *Pool) runJob(ctx context.Context, command string, job Job, updates chan<- Progress) Result {
	res := Result{Index: job.Index}
	start := time.Now()

	proc, err := p.Launcher.Start(ctx, command, job.Argv)
	if err != nil {
		res.Err = &SpawnError{Index: job.Index, Command: command, Err: err}
		notify(updates, Progress{Failed: 1})
		return res
	}
	notify(updates, Progress{Started: 1})

	if err := proc.Wait(); err != nil {
		res.Err = &ExitError{Index: job.Index, Err: err}
	}
	res.Duration = time.Since(start)

	delta := Progress{Finished: 1}
	if res.Err != nil {
		delta.Failed = 1
	}
	notify(updates, delta)
	return res
}

func notify(updates chan<- Progress, p Progress) {
	if updates != nil {
		updates <- p
	}
}
