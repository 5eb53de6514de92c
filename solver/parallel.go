package solver

import (
	"runtime"
	"sync"
)

// defaultParallelThreshold is the minimum particle count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const defaultParallelThreshold = 512

// workChunk represents a range of particles for a worker to process.
type workChunk struct {
	index      int // chunk slot, for per-chunk outputs
	start, end int
}

// workerPool runs one stage at a time over particle ranges.
type workerPool struct {
	numWorkers int
	threshold  int

	// Current stage body; set before dispatch, read by workers
	task func(chunk, start, end int)

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newWorkerPool(workers, threshold int) *workerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = defaultParallelThreshold
	}
	return &workerPool{
		numWorkers: workers,
		threshold:  threshold,
	}
}

// chunks returns the number of chunk slots a stage may use.
func (p *workerPool) chunks() int {
	return p.numWorkers
}

// startWorkers launches persistent worker goroutines.
func (p *workerPool) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *workerPool) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.task(chunk.index, chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// run applies fn to [start, end) split into contiguous chunks, returning
// once every chunk is done. Small ranges run on the calling goroutine as
// chunk 0. Returns the number of chunks used.
func (p *workerPool) run(start, end int, fn func(chunk, start, end int)) int {
	n := end - start
	if n <= 0 {
		return 0
	}
	if n < p.threshold || p.numWorkers == 1 {
		fn(0, start, end)
		return 1
	}

	// Ensure workers are running
	if !p.running {
		p.startWorkers()
	}
	p.task = fn

	numWorkers := p.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		lo := start + w*chunkSize
		hi := lo + chunkSize
		if hi > end {
			hi = end
		}
		if lo >= hi {
			break
		}

		p.workChan <- workChunk{index: w, start: lo, end: hi}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
	return chunksDispatched
}
