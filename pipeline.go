package ballast

import "sync"

// task splits data in workersCount chunks and runs fn on each element, one goroutine per chunk.
// fn must only touch its own element.
func task[T any](workersCount int, data []T, fn func(data T)) {
	workersCount = max(1, workersCount)
	if workersCount == 1 || len(data) < 2 {
		for _, d := range data {
			fn(d)
		}
		return
	}

	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		start := workerID * chunkSize
		if start >= dataSize {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(start, min(start+chunkSize, dataSize))
	}
	wg.Wait()
}
