package meshing

import (
	"context"
	"time"

	"voxelmesh/internal/world"

	"golang.org/x/sync/errgroup"
)

// BuildGreedyMesh sweeps the grid once per face direction, layer by layer,
// and merges same-type exposed faces into maximal rectangles. chunk is the
// grid's chunk coordinate; merged origins are offset by chunk*extent on X and
// Z only (Y stays grid-local).
//
// The output is ordered by direction (world.Directions), then layer, then
// scan position, so repeated builds over unchanged input are identical.
func BuildGreedyMesh(ext Extent, voxels VoxelReader, vis FaceVisibilityChecker, chunk world.ChunkCoord, opts ...Option) []MergedFace {
	o := newOptions(opts)
	start := time.Now()

	stats := BuildStats{Mode: ModeGreedy, Chunk: chunk}
	offset := gridOffset(ext, chunk)
	mask := newLayerMask(ext)

	var faces []MergedFace
	for _, d := range world.Directions {
		before := len(faces)
		var cells int
		faces, cells = buildGreedyForDirection(context.Background(), ext, voxels, vis, offset, d, mask, faces)
		stats.Faces[d] = len(faces) - before
		stats.Cells[d] = cells
	}

	stats.Duration = time.Since(start)
	o.report(stats)
	return faces
}

// BuildGreedyMeshConcurrent runs the six direction sweeps in parallel. Each
// sweep reads the shared grid and writes a private list; the lists are joined
// in direction order, so the result equals BuildGreedyMesh. The grid must not
// be mutated while the build runs. Cancellation is checked between layers.
func BuildGreedyMeshConcurrent(ctx context.Context, ext Extent, voxels VoxelReader, vis FaceVisibilityChecker, chunk world.ChunkCoord, opts ...Option) ([]MergedFace, error) {
	o := newOptions(opts)
	start := time.Now()

	offset := gridOffset(ext, chunk)
	var (
		perDir [world.NumDirections][]MergedFace
		cells  [world.NumDirections]int
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range world.Directions {
		g.Go(func() error {
			out, n := buildGreedyForDirection(gctx, ext, voxels, vis, offset, d, newLayerMask(ext), nil)
			perDir[d] = out
			cells[d] = n
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := BuildStats{Mode: ModeGreedy, Chunk: chunk, Cells: cells}
	total := 0
	for d, out := range perDir {
		stats.Faces[d] = len(out)
		total += len(out)
	}
	faces := make([]MergedFace, 0, total)
	for _, out := range perDir {
		faces = append(faces, out...)
	}

	stats.Duration = time.Since(start)
	o.report(stats)
	return faces, nil
}

func gridOffset(ext Extent, chunk world.ChunkCoord) world.BlockPos {
	return world.BlockPos{X: chunk.X * ext.X, Y: 0, Z: chunk.Z * ext.Z}
}

// layerMask holds the exposed-face flags and voxel types of one layer,
// indexed [v*uSize+u].
type layerMask struct {
	uSize, vSize int
	set          []bool
	types        []world.VoxelType
}

func newLayerMask(ext Extent) *layerMask {
	n := max(ext.X*ext.Y, ext.Y*ext.Z, ext.X*ext.Z)
	return &layerMask{
		set:   make([]bool, n),
		types: make([]world.VoxelType, n),
	}
}

func (m *layerMask) reset(uSize, vSize int) {
	m.uSize, m.vSize = uSize, vSize
	n := uSize * vSize
	clear(m.set[:n])
	clear(m.types[:n])
}

// matches reports whether cell (u,v) is still unclaimed and of type t.
func (m *layerMask) matches(u, v int, t world.VoxelType) bool {
	i := v*m.uSize + u
	return m.set[i] && m.types[i] == t
}

// buildGreedyForDirection appends the merged faces of direction d to dst and
// returns the extended slice plus the number of exposed cells seen.
func buildGreedyForDirection(ctx context.Context, ext Extent, voxels VoxelReader, vis FaceVisibilityChecker, offset world.BlockPos, d world.Direction, mask *layerMask, dst []MergedFace) ([]MergedFace, int) {
	sw := SweepAxes(d)
	wSize, uSize, vSize := ext.axis(sw.W), ext.axis(sw.U), ext.axis(sw.V)
	cells := 0

	for w := 0; w < wSize; w++ {
		if ctx.Err() != nil {
			return dst, cells
		}

		// Build the layer mask
		mask.reset(uSize, vSize)
		for v := 0; v < vSize; v++ {
			for u := 0; u < uSize; u++ {
				x, y, z := sw.toXYZ(w, u, v)
				if vis.ShouldRenderFace(x, y, z, d) {
					i := v*uSize + u
					mask.set[i] = true
					mask.types[i] = voxels.VoxelAt(x, y, z)
					cells++
				}
			}
		}

		// Greedy merge over the mask, row-major in (v,u)
		for v := 0; v < vSize; v++ {
			for u := 0; u < uSize; {
				i := v*uSize + u
				if !mask.set[i] {
					u++
					continue
				}
				t := mask.types[i]

				width := 1
				for u+width < uSize && mask.matches(u+width, v, t) {
					width++
				}

				height := 1
			grow:
				for v+height < vSize {
					for k := 0; k < width; k++ {
						if !mask.matches(u+k, v+height, t) {
							break grow
						}
					}
					height++
				}

				x, y, z := sw.toXYZ(w, u, v)
				dst = append(dst, MergedFace{
					Direction: d,
					Type:      t,
					Origin:    world.BlockPos{X: x, Y: y, Z: z}.Add(offset),
					Width:     width,
					Height:    height,
				})

				// claim the rectangle
				for vv := v; vv < v+height; vv++ {
					row := vv * uSize
					clear(mask.set[row+u : row+u+width])
				}
				u += width
			}
		}
	}
	return dst, cells
}
