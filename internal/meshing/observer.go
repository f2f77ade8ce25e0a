package meshing

import (
	"time"

	"voxelmesh/internal/world"

	"go.uber.org/zap"
)

// Build modes reported in BuildStats.
const (
	ModeGreedy = "greedy"
	ModeNaive  = "naive"
)

// BuildStats summarizes one mesh build.
type BuildStats struct {
	Mode  string
	Chunk world.ChunkCoord
	// Faces is the number of emitted faces per direction.
	Faces [world.NumDirections]int
	// Cells is the number of exposed cell faces per direction before merging.
	Cells    [world.NumDirections]int
	Duration time.Duration
}

// TotalFaces sums Faces over all directions.
func (s BuildStats) TotalFaces() int {
	n := 0
	for _, f := range s.Faces {
		n += f
	}
	return n
}

// TotalCells sums Cells over all directions.
func (s BuildStats) TotalCells() int {
	n := 0
	for _, c := range s.Cells {
		n += c
	}
	return n
}

// Observer receives diagnostics from mesh builds.
type Observer interface {
	ObserveBuild(stats BuildStats)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(BuildStats)

func (f ObserverFunc) ObserveBuild(stats BuildStats) { f(stats) }

type nopObserver struct{}

func (nopObserver) ObserveBuild(BuildStats) {}

type options struct {
	logger   *zap.Logger
	observer Observer
}

// Option configures a mesh build.
type Option func(*options)

// WithLogger sets the logger used for build summaries.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver sets the collaborator that receives BuildStats.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), observer: nopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) report(stats BuildStats) {
	o.observer.ObserveBuild(stats)
	o.logger.Debug("mesh built",
		zap.String("mode", stats.Mode),
		zap.Int("chunk_x", stats.Chunk.X),
		zap.Int("chunk_y", stats.Chunk.Y),
		zap.Int("chunk_z", stats.Chunk.Z),
		zap.Int("faces", stats.TotalFaces()),
		zap.Int("cells", stats.TotalCells()),
		zap.Duration("took", stats.Duration),
	)
}
