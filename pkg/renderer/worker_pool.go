package renderer

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/df07/go-flat-raytracer/pkg/geometry"
)

// RowTask represents a scanline rendering task for the worker pool
type RowTask struct {
	Row int // 1-based scanline index
}

// RowResult contains the result from rendering a scanline
type RowResult struct {
	Row   int
	Stats RenderStats
	Error error
}

// WorkerPool manages parallel scanline rendering. Every row is rendered by exactly
// one worker, so workers never write the same pixel.
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual row rendering tasks
type Worker struct {
	ID          int
	ctx         context.Context
	tracer      *rowTracer
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(ctx context.Context, tracer *rowTracer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	rows := tracer.camera.Height()
	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, rows),   // Buffer for all rows
		resultQueue: make(chan RowResult, rows), // Buffer for all results
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			ctx:         ctx,
			tracer:      tracer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop closes the task queue, waits for workers to drain it and closes the result queue
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop. Once the context is cancelled, remaining tasks are
// acknowledged with the context error without rendering.
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if err := w.ctx.Err(); err != nil {
			w.resultQueue <- RowResult{Row: task.Row, Error: err}
			continue
		}

		w.resultQueue <- RowResult{
			Row:   task.Row,
			Stats: w.tracer.renderRow(task.Row),
		}
	}
}

// RenderParallel renders like Render but distributes scanlines across numWorkers
// goroutines (0 = CPU count). The output is identical to Render. Entities must be
// safe for concurrent Intersect calls and the sink must accept concurrent writes to
// distinct pixels.
func RenderParallel(ctx context.Context, entities []geometry.Entity, camera *geometry.Camera, sink PixelSink, options RenderOptions, numWorkers int) (RenderStats, error) {
	if err := validateTarget(camera, sink); err != nil {
		return RenderStats{}, err
	}
	if err := ctx.Err(); err != nil {
		return RenderStats{}, err
	}

	startTime := time.Now()
	tracer := &rowTracer{entities: entities, camera: camera, sink: sink, options: options}

	pool := NewWorkerPool(ctx, tracer, numWorkers)
	pool.Start()
	for j := 1; j <= camera.Height(); j++ {
		pool.SubmitTask(RowTask{Row: j})
	}
	go pool.Stop()

	var stats RenderStats
	var firstErr error
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		stats.merge(result.Stats)
	}

	stats.Elapsed = time.Since(startTime)
	return stats, firstErr
}
