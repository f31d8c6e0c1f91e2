// Package workerpool runs fire-and-forget jobs on a fixed set of workers
// behind a bounded queue. When the queue is full, TrySubmit drops the job
// instead of blocking — the tracking pipeline prefers losing an event over
// slowing a request.
package workerpool

import (
	"sync"

	"github.com/shashiranjanraj/genosys/pkg/logger"
)

type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New starts workers goroutines consuming a queue of queueSize jobs.
func New(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	p := &Pool{jobs: make(chan func(), queueSize)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(job)
	}
}

func (p *Pool) run(job func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: job panicked", "panic", r)
		}
	}()
	job()
}

// TrySubmit enqueues job if there is room. Returns false when the queue is
// full or the pool is stopped; the job is discarded in that case.
func (p *Pool) TrySubmit(job func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}

	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Submit enqueues job, blocking until there is room. Panics if the pool is
// stopped, like sending on a closed channel would.
func (p *Pool) Submit(job func()) {
	p.jobs <- job
}

// Stop drains the queue and waits for in-flight jobs to finish. No further
// submits are accepted.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}
