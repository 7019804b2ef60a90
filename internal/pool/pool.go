// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pool provides a bounded-concurrency job pool with FIFO dispatch.
package pool

import (
	"context"
	"fmt"
	"sync"
)

// Pool limits how many submitted jobs run concurrently. Jobs are
// dispatched in submission order; completion order depends on each job's
// own latency. The queue is unbounded: Submit never blocks.
type Pool struct {
	max int

	mu     sync.Mutex
	active int
	queue  []func()
}

// New creates a Pool that runs at most maxConcurrent jobs at a time.
func New(maxConcurrent int) (*Pool, error) {
	if maxConcurrent <= 0 {
		return nil, fmt.Errorf("maxConcurrent must be positive, got %d", maxConcurrent)
	}
	return &Pool{max: maxConcurrent}, nil
}

// submit enqueues job and dispatches it as soon as a slot frees up.
func (p *Pool) submit(job func()) {
	p.mu.Lock()
	p.queue = append(p.queue, job)
	p.mu.Unlock()
	p.dispatch()
}

// dispatch starts the next queued job if a slot is free. When a running
// job finishes it calls dispatch again, so the queue drains itself.
func (p *Pool) dispatch() {
	p.mu.Lock()
	if p.active >= p.max || len(p.queue) == 0 {
		p.mu.Unlock()
		return
	}
	job := p.queue[0]
	p.queue = p.queue[1:]
	p.active++
	p.mu.Unlock()

	go func() {
		defer func() {
			p.mu.Lock()
			p.active--
			p.mu.Unlock()
			p.dispatch()
		}()
		job()
	}()
}

// InFlight returns the number of currently running jobs.
func (p *Pool) InFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// outcome carries a job's result to its waiter.
type outcome[T any] struct {
	value T
	err   error
}

// Run enqueues fn on p and blocks until it completes or ctx is done.
// A panic inside fn is normalized to an error, so one misbehaving job
// neither kills the process nor wedges its pool slot. The job itself is
// never cancelled once queued; if ctx expires while the caller waits,
// the job still runs to completion in the background and its result is
// discarded.
func Run[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) (T, error) {
	ch := make(chan outcome[T], 1)
	p.submit(func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				ch <- outcome[T]{value: zero, err: fmt.Errorf("pool job panicked: %v", r)}
			}
		}()
		v, err := fn(ctx)
		ch <- outcome[T]{value: v, err: err}
	})

	select {
	case out := <-ch:
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
