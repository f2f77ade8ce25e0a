package world

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrStreamerClosed is returned by Request after Close.
var ErrStreamerClosed = errors.New("chunk streamer closed")

// Populator fills a freshly created chunk before it is added to a Store.
type Populator interface {
	Populate(c *Chunk) error
}

// PopulatorFunc adapts a function to Populator.
type PopulatorFunc func(c *Chunk) error

func (f PopulatorFunc) Populate(c *Chunk) error { return f(c) }

// Streamer loads chunk columns into a Store around a center and evicts the
// ones that fall out of range. Only Y=0 chunks are streamed since a chunk
// spans the full world height.
type Streamer struct {
	store  *Store
	gen    Populator
	logger *zap.Logger

	jobs      chan ChunkCoord
	pending   map[ChunkCoord]struct{}
	pendingMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStreamer starts the given number of background generators. queueSize
// bounds the number of queued columns; Request drops columns beyond it.
func NewStreamer(store *Store, gen Populator, workers, queueSize int, logger *zap.Logger) *Streamer {
	if logger == nil {
		logger = zap.NewNop()
	}
	workers = max(workers, 1)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Streamer{
		store:   store,
		gen:     gen,
		logger:  logger,
		jobs:    make(chan ChunkCoord, max(queueSize, 1)),
		pending: make(map[ChunkCoord]struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
	for range workers {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

// Close stops the workers and waits for them. Queued columns are dropped.
func (s *Streamer) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Streamer) worker() {
	defer s.wg.Done()
	for {
		select {
		case coord := <-s.jobs:
			if err := s.Load(coord); err != nil {
				s.logger.Warn("chunk generation failed", zap.Any("chunk", coord), zap.Error(err))
			}
			s.pendingMu.Lock()
			delete(s.pending, coord)
			s.pendingMu.Unlock()
		case <-s.ctx.Done():
			return
		}
	}
}

// Load generates and installs the chunk at coord unless it is already
// present. It runs on the calling goroutine.
func (s *Streamer) Load(coord ChunkCoord) error {
	if s.store.GetChunk(coord, false) != nil {
		return nil
	}
	c := NewChunk(coord.X, coord.Y, coord.Z)
	if err := s.gen.Populate(c); err != nil {
		return err
	}
	if err := s.store.Add(c); err != nil && !errors.Is(err, ErrChunkExists) {
		return err
	}
	return nil
}

// LoadAround synchronously loads every column within radius chunks of
// (cx, cz), a square of side 2*radius+1.
func (s *Streamer) LoadAround(cx, cz, radius int) error {
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if err := s.Load(ChunkCoord{X: cx + dx, Z: cz + dz}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Request queues the column at coord for background loading. It reports
// whether a job was queued; present, pending and overflowing columns are
// skipped.
func (s *Streamer) Request(coord ChunkCoord) (bool, error) {
	if s.ctx.Err() != nil {
		return false, ErrStreamerClosed
	}
	if s.store.GetChunk(coord, false) != nil {
		return false, nil
	}

	s.pendingMu.Lock()
	if _, ok := s.pending[coord]; ok {
		s.pendingMu.Unlock()
		return false, nil
	}
	s.pending[coord] = struct{}{}
	s.pendingMu.Unlock()

	select {
	case s.jobs <- coord:
		return true, nil
	default:
		s.pendingMu.Lock()
		delete(s.pending, coord)
		s.pendingMu.Unlock()
		return false, nil
	}
}

// RequestAround queues every missing column within radius chunks
// (Euclidean, in XZ) of (cx, cz), nearest ring first, and returns how many
// were queued. It stops early when the queue is full.
func (s *Streamer) RequestAround(cx, cz, radius int) (int, error) {
	queued := 0
	for r := 0; r <= radius; r++ {
		for dx := -r; dx <= r; dx++ {
			for dz := -r; dz <= r; dz++ {
				if max(abs(dx), abs(dz)) != r || dx*dx+dz*dz > radius*radius {
					continue
				}
				ok, err := s.Request(ChunkCoord{X: cx + dx, Z: cz + dz})
				if err != nil {
					return queued, err
				}
				if ok {
					queued++
				}
				if len(s.jobs) == cap(s.jobs) {
					return queued, nil
				}
			}
		}
	}
	return queued, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Pending returns the number of queued or in-progress columns.
func (s *Streamer) Pending() int {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	return len(s.pending)
}

// EvictFar removes every chunk farther than radius chunks (Euclidean, in
// XZ) from (cx, cz) and returns how many were removed. Neighbors of removed
// chunks see Air across the freed border.
func (s *Streamer) EvictFar(cx, cz, radius int) int {
	removed := 0
	for _, coord := range s.store.Coords() {
		dx, dz := coord.X-cx, coord.Z-cz
		if dx*dx+dz*dz <= radius*radius {
			continue
		}
		if s.store.Remove(coord) {
			removed++
		}
	}
	return removed
}
