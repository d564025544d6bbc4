// Package workerpool provides a bounded goroutine pool with backpressure.
//
// Submit never blocks: it returns ErrPoolFull when every worker is busy and
// the buffer is full. SubmitWait blocks until there is room. Each fans a
// batch of indexed tasks out over the pool and collects their errors:
//
//	pool := workerpool.New(4)
//	defer pool.Shutdown()
//	err := pool.Each(ctx, len(ids), func(ctx context.Context, i int) error {
//	    return recount(ctx, ids[i])
//	})
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPoolFull is returned by Submit when all workers are busy and the task
// queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// New creates a Pool with size workers (at least one).
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		tasks: make(chan func(), size*2),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
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

// SubmitWait blocks until task is queued, ctx is done, or the pool is
// closed.
func (p *Pool) SubmitWait(ctx context.Context, task func()) error {
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

// Each runs fn for i in [0, n) on the pool and waits for all of them. It
// returns every task error joined; a panicking task counts as an error.
// Tasks not yet submitted when ctx ends are skipped.
func (p *Pool) Each(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		err := p.SubmitWait(ctx, func() {
			defer wg.Done()
			if err := safeRun(func() error { return fn(ctx, i) }); err != nil {
				record(err)
			}
		})
		if err != nil {
			wg.Done()
			record(err)
			break
		}
	}

	wg.Wait()
	return errors.Join(errs...)
}

// Shutdown stops accepting tasks, waits for queued and in-flight tasks to
// finish, and releases the workers. It is safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		_ = safeRun(func() error { task(); return nil })
	}
}

// safeRun converts a panic in task into an error so the worker survives.
func safeRun(task func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workerpool: task panicked: %v", r)
		}
	}()
	return task()
}
