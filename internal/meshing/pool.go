package meshing

import (
	"context"
	"errors"
	"sync"

	"voxelmesh/internal/world"

	"go.uber.org/zap"
)

// ErrPoolClosed is returned for jobs submitted after Shutdown.
var ErrPoolClosed = errors.New("mesh worker pool is shut down")

// MeshJob represents a meshing job request
type MeshJob struct {
	Chunk *world.Chunk
	// Result channel - will be sent the result when done
	ResultChan chan<- MeshResult
}

// MeshResult contains the result of a meshing operation
type MeshResult struct {
	Coord   world.ChunkCoord
	ChunkID uint64
	Mesh    *ChunkMesh
	Error   error
}

// WorkerPool manages goroutines for mesh generation
type WorkerPool struct {
	jobQueue chan MeshJob
	workers  int
	cfg      BuildConfig
	opts     []Option
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewWorkerPool creates a mesh worker pool and starts its workers. The build
// options are applied to every job.
func NewWorkerPool(workers, queueSize int, cfg BuildConfig, logger *zap.Logger, opts ...Option) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool{
		jobQueue: make(chan MeshJob, queueSize),
		workers:  workers,
		cfg:      cfg,
		opts:     append([]Option{WithLogger(logger)}, opts...),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := range workers {
		pool.wg.Add(1)
		go pool.worker(i)
	}
	return pool
}

// SubmitJob submits a mesh generation job to the pool
// Returns true if job was submitted successfully, false if queue is full or
// the pool is shut down
func (p *WorkerPool) SubmitJob(job MeshJob) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false // Queue is full
	}
}

// SubmitJobBlocking submits a job and blocks until it's queued, ctx is done
// or the pool shuts down.
func (p *WorkerPool) SubmitJobBlocking(ctx context.Context, job MeshJob) error {
	if p.ctx.Err() != nil {
		return ErrPoolClosed
	}
	select {
	case p.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolClosed
	}
}

// worker is the worker goroutine that processes mesh jobs
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			result := p.process(job)

			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			p.logger.Debug("mesh worker stopped", zap.Int("worker", id))
			return
		}
	}
}

func (p *WorkerPool) process(job MeshJob) MeshResult {
	if job.Chunk == nil {
		return MeshResult{Error: errors.New("mesh job without chunk")}
	}
	coord, id := job.Chunk.Coord(), job.Chunk.ID()
	mesh, err := MeshChunk(p.ctx, job.Chunk, p.cfg, p.opts...)
	if err != nil {
		p.logger.Warn("mesh job failed", zap.Any("chunk", coord), zap.Error(err))
	}
	return MeshResult{Coord: coord, ChunkID: id, Mesh: mesh, Error: err}
}

// Shutdown stops the workers and waits for them. Queued jobs that have not
// started are dropped.
func (p *WorkerPool) Shutdown() {
	p.once.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}

// GetQueueLength returns the current number of jobs in the queue
func (p *WorkerPool) GetQueueLength() int {
	return len(p.jobQueue)
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// MeshAll meshes every chunk through the pool and returns the results in
// chunk order. It blocks until all results arrive or ctx is done.
func (p *WorkerPool) MeshAll(ctx context.Context, chunks []*world.Chunk) ([]MeshResult, error) {
	results := make(chan MeshResult, len(chunks))
	for _, c := range chunks {
		if err := p.SubmitJobBlocking(ctx, MeshJob{Chunk: c, ResultChan: results}); err != nil {
			return nil, err
		}
	}

	byCoord := make(map[world.ChunkCoord]MeshResult, len(chunks))
	for range chunks {
		select {
		case r := <-results:
			byCoord[r.Coord] = r
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-p.ctx.Done():
			return nil, ErrPoolClosed
		}
	}

	out := make([]MeshResult, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, byCoord[c.Coord()])
	}
	return out, nil
}
