package search

import "sync"

// parallelFor runs body(i) for i in [0,n), either sequentially (in index
// order, for determinism when parallelism is disabled) or via a fixed-size
// worker pool of goroutines over independent indices, mirroring
// neighborhood.parallelFor's data-parallel candidate evaluation. body must
// not mutate any shared state beyond its own slot.
func parallelFor(n int, parallel bool, body func(i int)) {
	if !parallel || n == 0 {
		for i := 0; i < n; i++ {
			body(i)
		}
		return
	}

	var wg sync.WaitGroup
	workers := 8
	if n < workers {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				body(i)
			}
		}(start, end)
	}
	wg.Wait()
}
