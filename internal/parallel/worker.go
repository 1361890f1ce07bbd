// Package parallel provides the worker-pool used by parallel pipeline work.
//
// It implements fan-out/fan-in execution over a fixed pool of goroutines.
// Random forest fitting, cross-validation folds, and hash-map builds for
// large joins all run through this pool. ProcessIndexed preserves input
// order in the result slice; Process does not.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// WorkerPool manages a pool of goroutines for parallel processing.
type WorkerPool struct {
	numWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWorkerPool creates a worker pool. A non-positive size defaults to the
// CPU count.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		numWorkers: numWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Close shuts down the worker pool.
func (wp *WorkerPool) Close() {
	wp.cancel()
}

// indexedItem holds an input item with its position.
type indexedItem[T any] struct {
	index int
	value T
}

// indexedResult holds a result with its position.
type indexedResult[R any] struct {
	index  int
	result R
}

// Process executes work items in parallel. Result order is unspecified.
func Process[T, R any](wp *WorkerPool, items []T, worker func(T) R) []R {
	results := run(wp, items, func(_ int, item T) R { return worker(item) })

	out := make([]R, 0, len(results))
	for _, r := range results {
		out = append(out, r.result)
	}
	return out
}

// ProcessIndexed executes work items in parallel while preserving order.
// The worker receives the item's index alongside the item.
func ProcessIndexed[T, R any](wp *WorkerPool, items []T, worker func(int, T) R) []R {
	results := run(wp, items, worker)

	out := make([]R, len(items))
	for _, r := range results {
		out[r.index] = r.result
	}
	return out
}

// run is the shared fan-out/fan-in loop behind Process and ProcessIndexed.
func run[T, R any](wp *WorkerPool, items []T, worker func(int, T) R) []indexedResult[R] {
	if len(items) == 0 {
		return nil
	}

	itemCh := make(chan indexedItem[T], len(items))
	resultCh := make(chan indexedResult[R], len(items))

	var wg sync.WaitGroup
	for i := 0; i < wp.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemCh {
				select {
				case <-wp.ctx.Done():
					return
				default:
					resultCh <- indexedResult[R]{
						index:  item.index,
						result: worker(item.index, item.value),
					}
				}
			}
		}()
	}

	go func() {
		defer close(itemCh)
		for i, item := range items {
			select {
			case <-wp.ctx.Done():
				return
			case itemCh <- indexedItem[T]{index: i, value: item}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]indexedResult[R], 0, len(items))
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}
