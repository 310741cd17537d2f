package seed

import (
	"context"
	"sync"
)

type Task func(ctx context.Context) error

type WorkerPoolI interface {
	Submit(ctx context.Context, task Task) <-chan error
	Close()
}

// WorkerPool runs submitted tasks on a fixed number of goroutines. Each
// submission gets its own channel that receives the task's result.
type WorkerPool struct {
	pool      chan job
	closeOnce sync.Once
	wg        sync.WaitGroup
}

type job struct {
	ctx    context.Context
	task   Task
	result chan error
}

func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	wp := &WorkerPool{pool: make(chan job, size)}

	wp.wg.Add(size)
	for i := 0; i < size; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for j := range wp.pool {
		if err := j.ctx.Err(); err != nil {
			j.result <- err
			continue
		}
		j.result <- j.task(j.ctx)
	}
}

func (wp *WorkerPool) Submit(ctx context.Context, task Task) <-chan error {
	result := make(chan error, 1)
	select {
	case <-ctx.Done():
		result <- ctx.Err()
	case wp.pool <- job{ctx: ctx, task: task, result: result}:
	}
	return result
}

// Close stops accepting tasks and waits for the queued ones to finish.
func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() {
		close(wp.pool)
	})
	wp.wg.Wait()
}
