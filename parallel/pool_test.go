package parallel

import (
	"sync/atomic"
	"testing"
)

func TestPoolRunsAllJobs(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		pool := Start(workers)

		var count atomic.Int64
		for range 100 {
			pool.Do(func() { count.Add(1) })
		}
		pool.Wait(true)

		if got := count.Load(); got != 100 {
			t.Fatalf("workers=%d: ran %d jobs, want 100", workers, got)
		}
	}
}
