// Package parallel runs index-range work across CPU cores.
//
// The frame and narrowing code touches every cell of a dataset; these helpers
// split that work into contiguous chunks and fall back to a plain loop when
// the input is too small for goroutines to pay off.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the item count below which work runs sequentially.
const DefaultThreshold = 4096

// Parallelize divides items into contiguous ranges, one per available core,
// and calls fn(start, end) for each range concurrently. It returns when every
// range has been processed.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold performs parallelization only when the number of
// items exceeds the threshold. Otherwise fn(0, items) runs on the caller's
// goroutine.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// ForEach calls fn(i) for every i in [0, items), in parallel when items
// exceeds threshold. fn must only write state owned by index i.
func ForEach(items int, threshold int, fn func(i int)) {
	ParallelizeWithThreshold(items, threshold, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
