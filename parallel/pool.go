// Package parallel fans independent jobs out over a fixed set of workers.
// The codec itself stays strictly sequential (its seeded generator must
// advance in bit order); the pool only spreads work across separate
// carrier images, as in the batch capacity scan.
package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func(done bool)
	CancelFunc func()
)

type Pool struct {
	wg     sync.WaitGroup
	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

// Start launches numWorkers workers, or one per CPU when numWorkers < 1.
// With a single worker jobs run inline on the caller.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Do:     func(job func()) { job() },
		Wait:   func(bool) {},
		Cancel: func() {},
	}
	if numWorkers == 1 {
		return pool
	}

	jobs := make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for job := range jobs {
				job()
			}
		})
	}

	pool.Do = func(job func()) { jobs <- job }
	pool.Cancel = sync.OnceFunc(func() { close(jobs) })
	pool.Wait = func(done bool) {
		if done {
			pool.Cancel()
		}
		pool.wg.Wait()
	}
	return pool
}
