package concurrent

import (
	"context"
	"sync"
)

type JobFunc[T any, G any] func(ctx context.Context, job T) G

// Job pairs an input with its position so results can be put back in order.
type Job[T any] struct {
	ID    int
	Input T
}

type Result[G any] struct {
	ID     int
	Output G
}

type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan Job[T]
	results    chan Result[G]
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job[T], jobQueueSize),
		results:    make(chan Result[G], jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(ctx context.Context, jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- Result[G]{ID: job.ID, Output: jobFunc(ctx, job.Input)}
	}
}

func (wp *WorkerPool[T, G]) Start(ctx context.Context, jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, jobFunc)
	}
}

func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(id int, job T) {
	wp.jobQueue <- Job[T]{ID: id, Input: job}
}

func (wp *WorkerPool[T, G]) CollectResults() <-chan Result[G] {
	return wp.results
}

func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

// Map runs jobFunc over inputs on numWorkers goroutines and returns the outputs in input order.
// jobFunc must watch ctx itself; Map always waits for every job.
func Map[T any, G any](ctx context.Context, numWorkers int, inputs []T, jobFunc JobFunc[T, G]) []G {
	wp := NewWorkerPool[T, G](numWorkers, len(inputs))
	wp.Start(ctx, jobFunc)

	for i, in := range inputs {
		wp.AddJob(i, in)
	}
	wp.Close()
	wp.Wait()

	out := make([]G, len(inputs))
	for res := range wp.CollectResults() {
		out[res.ID] = res.Output
	}
	return out
}
