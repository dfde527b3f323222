// Package workerpool runs tasks on a fixed number of goroutines.
//
// The admin batch save fans pending product patches out through a Pool so a
// large staged set never opens more than BATCH_WORKERS requests at a time.
//
//	pool := workerpool.New(8)
//	defer pool.Shutdown()
//	err := pool.SubmitWait(ctx, func() { send(patch) })
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aircon-store/storefront/pkg/logger"
)

var (
	// ErrPoolFull is returned by Submit when every worker is busy and the
	// queue is at capacity.
	ErrPoolFull = errors.New("workerpool: pool is full")
	// ErrPoolClosed is returned after Shutdown.
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closeCh chan struct{}
	onPanic func(v any)
}

// Option configures a Pool.
type Option func(*Pool)

// WithPanicHandler replaces the default handler, which logs the panic.
func WithPanicHandler(fn func(v any)) Option {
	return func(p *Pool) { p.onPanic = fn }
}

// New starts size workers. The queue holds twice as many tasks.
func New(size int, opts ...Option) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{
		tasks:   make(chan func(), size*2),
		closeCh: make(chan struct{}),
		onPanic: func(v any) {
			logger.Error("workerpool: task panicked", "panic", fmt.Sprint(v))
		},
	}
	for _, o := range opts {
		o(p)
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until the task is queued, ctx is done, or the pool
// closes.
func (p *Pool) SubmitWait(ctx context.Context, task func()) error {
	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}
	select {
	case <-p.closeCh:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	case p.tasks <- task:
		return nil
	}
}

// Shutdown stops intake, drains queued tasks and waits for the workers.
// Safe to call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.closeCh)
		close(p.tasks)
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if v := recover(); v != nil && p.onPanic != nil {
			p.onPanic(v)
		}
	}()
	task()
}
