package concurrent

import (
	"context"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	var calls atomic.Int32
	jobs := []int{5, 1, 4, 2, 3}
	results := Run(context.Background(), 3, jobs, func(_ context.Context, job int) int {
		calls.Add(1)
		return job * job
	})

	sort.Ints(results)
	assert.Equal(t, []int{1, 4, 9, 16, 25}, results)
	assert.Equal(t, int32(len(jobs)), calls.Load())
}

func TestRunPassesContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := Run(ctx, 0, []string{"a", "b"}, func(ctx context.Context, job string) error {
		return ctx.Err()
	})
	assert.Len(t, results, 2)
	for _, err := range results {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestWorkerPoolManual(t *testing.T) {
	wp := NewWorkerPool[int, int](2, 4)
	wp.Start(context.Background(), func(_ context.Context, job int) int { return job + 1 })
	for i := 0; i < 4; i++ {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Wait()

	sum := 0
	for res := range wp.CollectResults() {
		sum += res
	}
	assert.Equal(t, 10, sum)
}
