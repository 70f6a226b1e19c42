package renderer

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/df07/go-ptrace/pkg/tracer"
)

// TileTask is one unit of work submitted to the WorkerPool: render Tile up
// to TargetSamples samples per pixel, writing into the shared PixelStats
// array.
type TileTask struct {
	Tile          *Tile
	TargetSamples int
	TaskID        int
	PixelStats    [][]PixelStats
}

// TileResult is a completed TileTask's outcome.
type TileResult struct {
	TaskID int
	Stats  RenderStats
	Error  error
}

// WorkerPool renders TileTasks across a fixed set of goroutines, each with
// its own TileRenderer so tiles never share renderer-local state. All
// workers share a single cancellation flag: setting it makes every
// in-flight tile abort at its next pixel boundary instead of finishing its
// full sample budget, bounding stall time when a frame is discarded.
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*worker
	numWorkers  int
	wg          sync.WaitGroup
	cancelled   atomic.Bool
}

type worker struct {
	renderer *TileRenderer
}

// NewWorkerPool creates a pool of numWorkers goroutines (0 = runtime.NumCPU())
// rendering against t, sized for an image maxTiles tiles large.
func NewWorkerPool(t *tracer.Tracer, width, height, maxTiles, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, maxTiles),
		resultQueue: make(chan TileResult, maxTiles),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		renderer := NewTileRenderer(t, width, height)
		renderer.cancelled = &wp.cancelled
		wp.workers = append(wp.workers, &worker{renderer: renderer})
	}

	return wp
}

// Cancel sets the shared cancellation flag (release semantics via
// atomic.Bool). Workers observe it at their next pixel boundary.
func (wp *WorkerPool) Cancel() {
	wp.cancelled.Store(true)
}

// Cancelled reports whether the pool's cancellation flag is currently set.
func (wp *WorkerPool) Cancelled() bool {
	return wp.cancelled.Load()
}

// ResetCancellation clears the cancellation flag so a subsequent frame can
// render normally. Callers must ensure no in-flight tiles remain first.
func (wp *WorkerPool) ResetCancellation() {
	wp.cancelled.Store(false)
}

// Start launches all worker goroutines.
func (wp *WorkerPool) Start() {
	for _, w := range wp.workers {
		wp.wg.Add(1)
		go wp.run(w, &wp.wg)
	}
}

// Stop closes the task queue and waits for every worker to drain it.
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask enqueues a tile for rendering.
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult blocks for the next completed tile. ok is false once the pool
// has stopped and drained.
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// NumWorkers returns how many goroutines the pool is running.
func (wp *WorkerPool) NumWorkers() int { return wp.numWorkers }

func (wp *WorkerPool) run(w *worker, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range wp.taskQueue {
		stats := w.renderer.RenderTileBounds(task.Tile.Bounds, task.PixelStats, tileSampler(task.Tile.ID), task.TargetSamples)
		wp.resultQueue <- TileResult{TaskID: task.TaskID, Stats: stats}
	}
}
