// Package metrics exports mesh build statistics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"voxelmesh/internal/meshing"
	"voxelmesh/internal/world"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MeshMetrics implements meshing.Observer on top of Prometheus collectors.
type MeshMetrics struct {
	builds   *prometheus.CounterVec
	faces    *prometheus.CounterVec
	cells    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ meshing.Observer = (*MeshMetrics)(nil)

// NewMeshMetrics creates the collectors and registers them with reg.
func NewMeshMetrics(reg prometheus.Registerer) *MeshMetrics {
	m := &MeshMetrics{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxelmesh",
			Name:      "builds_total",
			Help:      "Number of chunk mesh builds.",
		}, []string{"mode"}),
		faces: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxelmesh",
			Name:      "faces_total",
			Help:      "Quads emitted, by face direction.",
		}, []string{"direction"}),
		cells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxelmesh",
			Name:      "exposed_cells_total",
			Help:      "Exposed cell faces before merging, by face direction.",
		}, []string{"direction"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voxelmesh",
			Name:      "build_duration_seconds",
			Help:      "Wall time of one chunk mesh build.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"mode"}),
	}
	reg.MustRegister(m.builds, m.faces, m.cells, m.duration)
	return m
}

// ObserveBuild records one build.
func (m *MeshMetrics) ObserveBuild(s meshing.BuildStats) {
	m.builds.WithLabelValues(s.Mode).Inc()
	m.duration.WithLabelValues(s.Mode).Observe(s.Duration.Seconds())
	for _, d := range world.Directions {
		m.faces.WithLabelValues(d.String()).Add(float64(s.Faces[d]))
		m.cells.WithLabelValues(d.String()).Add(float64(s.Cells[d]))
	}
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics endpoint listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
