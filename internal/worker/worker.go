package worker

import "sync"

// Task represents a unit of work executed by the pool. The service uses it
// to keep slow side effects like transactional mail off the request path.
type Task func()

// Pool defines a fixed-size worker pool.
type Pool interface {
	Submit(Task)
	Stop()
}

// NewPool creates a pool with n workers and a queue of queueSize pending
// tasks. n<=0 defaults to 1.
func NewPool(n, queueSize int) Pool {
	if n <= 0 {
		n = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &pool{jobs: make(chan Task, queueSize)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				if job != nil {
					job()
				}
			}
		}()
	}
	return p
}

type pool struct {
	jobs chan Task
	wg   sync.WaitGroup
}

func (p *pool) Submit(t Task) {
	p.jobs <- t
}

// Stop drains queued tasks and waits for workers to exit.
func (p *pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
