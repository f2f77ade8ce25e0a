package metrics

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"voxelmesh/internal/meshing"
	"voxelmesh/internal/world"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestObserveBuild(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMeshMetrics(reg)

	stats := meshing.BuildStats{Mode: meshing.ModeGreedy, Duration: time.Millisecond}
	stats.Faces[world.DirTop] = 3
	stats.Cells[world.DirTop] = 12
	m.ObserveBuild(stats)
	m.ObserveBuild(stats)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.builds.WithLabelValues(meshing.ModeGreedy)))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.faces.WithLabelValues("top")))
	assert.Equal(t, 24.0, testutil.ToFloat64(m.cells.WithLabelValues("top")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.faces.WithLabelValues("left")))
}

func TestObserverWiredIntoMesher(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMeshMetrics(reg)

	ch := world.NewChunk(0, 0, 0)
	require.NoError(t, ch.SetVoxel(1, 1, 1, world.VoxelStone))
	_, err := meshing.MeshChunk(context.Background(), ch, meshing.DefaultBuildConfig(), meshing.WithObserver(m))
	require.NoError(t, err)

	for _, d := range world.Directions {
		assert.Equal(t, 1.0, testutil.ToFloat64(m.faces.WithLabelValues(d.String())), d.String())
	}
}

func TestServe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMeshMetrics(reg)
	m.ObserveBuild(meshing.BuildStats{Mode: meshing.ModeNaive})

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- Serve(ctx, addr, reg, zap.NewNop()) }()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/metrics", addr))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		body = string(b)
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	assert.True(t, strings.Contains(body, `voxelmesh_builds_total{mode="naive"} 1`))

	cancel()
	assert.NoError(t, <-errCh)
}
