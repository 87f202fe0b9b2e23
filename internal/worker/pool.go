package worker

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool runs batches of jobs with a bound on executing jobs shared by every
// concurrent Run call
type Pool struct {
	workers int
	slots   *semaphore.Weighted
}

// NewPool creates a pool that executes at most workers jobs at a time
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers, slots: semaphore.NewWeighted(int64(workers))}
}

type indexedResult struct {
	index  int
	result Result
}

// Run executes jobs and returns their results in job order. Jobs of all
// concurrent Run calls together hold at most p.workers slots.
//
// If ctx ends before every job finishes, Run returns at once with the results that
// completed so far; unfinished jobs are left to observe ctx and their results are dropped.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}

	queue := make(chan int, len(jobs))
	for i := range jobs {
		queue <- i
	}
	close(queue)

	// Sized so late workers never block after Run has returned
	out := make(chan indexedResult, len(jobs))

	var wg sync.WaitGroup
	for w := 0; w < min(p.workers, len(jobs)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				if err := p.slots.Acquire(ctx, 1); err != nil {
					return
				}
				r := jobs[i].Execute(ctx)
				p.slots.Release(1)
				out <- indexedResult{index: i, result: r}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	slots := make([]Result, len(jobs))
	filled := make([]bool, len(jobs))
	take := func(r indexedResult) {
		slots[r.index] = r.result
		filled[r.index] = true
	}

wait:
	for {
		select {
		case r := <-out:
			take(r)
		case <-done:
			break wait
		case <-ctx.Done():
			break wait
		}
	}

	for {
		select {
		case r := <-out:
			take(r)
			continue
		default:
		}
		break
	}

	results := make([]Result, 0, len(jobs))
	for i, ok := range filled {
		if ok {
			results = append(results, slots[i])
		}
	}
	return results
}
