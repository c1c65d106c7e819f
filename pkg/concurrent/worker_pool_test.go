package concurrent

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkerPoolProcessesAllJobs(t *testing.T) {
	pool := NewWorkerPool[int, int](4, 16)
	pool.Start(func(job int) int { return job * job })

	for i := 1; i <= 10; i++ {
		pool.Submit(i)
	}
	pool.Close()
	pool.Wait()

	got := make([]int, 0, 10)
	for res := range pool.CollectResults() {
		got = append(got, res)
	}
	sort.Ints(got)

	want := make([]int, 0, 10)
	for i := 1; i <= 10; i++ {
		want = append(want, i*i)
	}
	require.Equal(t, want, got)
}

func TestWorkerPoolNoJobs(t *testing.T) {
	pool := NewWorkerPool[int, int](2, 2)
	pool.Start(func(job int) int { return job })
	pool.Close()
	pool.Wait()

	count := 0
	for range pool.CollectResults() {
		count++
	}
	require.Zero(t, count)
}
