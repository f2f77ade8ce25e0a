// Command voxelview builds a demo voxel scene, greedy-meshes every chunk on a
// worker pool and shows the result in an orbiting window.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"voxelmesh/internal/config"
	"voxelmesh/internal/logger"
	"voxelmesh/internal/meshing"
	"voxelmesh/internal/metrics"
	"voxelmesh/internal/world"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "voxelview: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, err := config.ParseFlags(flag.NewFlagSet("voxelview", flag.ContinueOnError), args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer logger.Sync(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	meshMetrics := metrics.NewMeshMetrics(reg)
	metricsDone := make(chan struct{})
	if cfg.Metrics.Addr != "" {
		go func() {
			defer close(metricsDone)
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, reg, log); err != nil {
				log.Error("metrics endpoint failed", zap.Error(err))
			}
		}()
	} else {
		close(metricsDone)
	}

	sc, err := buildScene(cfg.World.ViewRadius, cfg.World.StreamWorkers, cfg.World.StreamQueue, log)
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}
	defer sc.Close()
	log.Info("scene built", zap.Int("chunks", sc.store.Len()))

	buildCfg := meshing.BuildConfig{
		Greedy:             cfg.Meshing.Greedy,
		ParallelDirections: cfg.Meshing.ParallelDirections,
		VoxelSize:          cfg.Meshing.VoxelSize,
	}
	pool := meshing.NewWorkerPool(cfg.Meshing.Workers, cfg.Meshing.QueueSize, buildCfg, log,
		meshing.WithObserver(meshMetrics))
	defer pool.Shutdown()

	start := time.Now()
	results, err := pool.MeshAll(ctx, sc.store.Chunks())
	if err != nil {
		return fmt.Errorf("meshing scene: %w", err)
	}
	logSummary(log, sc.store.Chunks(), results, pool.Workers(), time.Since(start))

	if cfg.Window.Headless {
		if cfg.Metrics.Addr != "" {
			log.Info("headless run finished, serving metrics until interrupted")
			<-ctx.Done()
			<-metricsDone
		}
		return nil
	}

	v := &viewer{
		cfg:      cfg,
		savePath: config.SavePath(flags),
		scene:    sc,
		pool:     pool,
		log:      log,
	}
	err = v.run(ctx, results)
	stop()
	<-metricsDone
	return err
}

func logSummary(log *zap.Logger, chunks []*world.Chunk, results []meshing.MeshResult, workers int, elapsed time.Duration) {
	solid, empty := 0, 0
	for _, c := range chunks {
		if c.IsEmpty() {
			empty++
			continue
		}
		solid += c.CountSolid()
	}
	faces, indices, failed := 0, 0, 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			continue
		}
		faces += r.Mesh.Mesh.FaceCount()
		indices += int(r.Mesh.Mesh.IndexCount())
	}
	log.Info("scene meshed",
		zap.Int("chunks", len(results)),
		zap.Int("empty_chunks", empty),
		zap.Int("solid_voxels", solid),
		zap.Int("workers", workers),
		zap.Int("failed", failed),
		zap.Int("faces", faces),
		zap.Int("indices", indices),
		zap.Duration("elapsed", elapsed),
	)
}
