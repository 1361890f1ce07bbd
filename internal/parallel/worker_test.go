package parallel

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcess(t *testing.T) {
	wp := NewWorkerPool(4)
	defer wp.Close()

	items := []int{1, 2, 3, 4, 5}
	results := Process(wp, items, func(v int) int { return v * v })

	sort.Ints(results)
	assert.Equal(t, []int{1, 4, 9, 16, 25}, results)
}

func TestProcessIndexedPreservesOrder(t *testing.T) {
	wp := NewWorkerPool(8)
	defer wp.Close()

	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	results := ProcessIndexed(wp, items, func(idx, v int) int { return idx + v })
	for i, r := range results {
		assert.Equal(t, 2*i, r)
	}
}

func TestProcessEmptyInput(t *testing.T) {
	wp := NewWorkerPool(2)
	defer wp.Close()

	assert.Empty(t, Process(wp, []string{}, func(s string) string { return s }))
	assert.Empty(t, ProcessIndexed(wp, []string{}, func(_ int, s string) string { return s }))
}

func TestNewWorkerPoolDefaultsToCPUCount(t *testing.T) {
	wp := NewWorkerPool(0)
	defer wp.Close()

	assert.Greater(t, wp.numWorkers, 0)
}
