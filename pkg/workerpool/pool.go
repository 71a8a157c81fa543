// Package workerpool runs tasks on a bounded set of goroutines.
//
//	pool := workerpool.New(ctx, 4)
//	for _, id := range ids {
//	    if err := pool.SubmitWait(ctx, recalc(id)); err != nil {
//	        break
//	    }
//	}
//	err := pool.Shutdown() // joined task errors
//
// Submit never blocks and reports ErrPoolFull when the queue is at capacity,
// so HTTP callers can shed load; SubmitWait blocks for batch work.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrPoolFull is returned by Submit when every worker is busy and the
	// queue is full.
	ErrPoolFull = errors.New("workerpool: pool is full")
	// ErrPoolClosed is returned by Submit after Shutdown.
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

// Task is a unit of work. It receives the pool's context.
type Task func(ctx context.Context) error

// Pool is a bounded goroutine pool.
type Pool struct {
	ctx   context.Context
	tasks chan Task
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	errMu sync.Mutex
	errs  []error
}

// New starts size workers; the queue holds twice as many pending tasks.
func New(ctx context.Context, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{ctx: ctx, tasks: make(chan Task, size*2)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait enqueues task, blocking until there is room or ctx is done.
func (p *Pool) SubmitWait(ctx context.Context, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks, waits for queued and running tasks, and
// returns their joined errors. Calls after the first return nil.
func (p *Pool) Shutdown() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()

	p.errMu.Lock()
	defer p.errMu.Unlock()
	return errors.Join(p.errs...)
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		if err := p.run(task); err != nil {
			p.errMu.Lock()
			p.errs = append(p.errs, err)
			p.errMu.Unlock()
		}
	}
}

func (p *Pool) run(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workerpool: task panicked: %v", r)
		}
	}()
	return task(p.ctx)
}
