package meshing

import (
	"time"

	"voxelmesh/internal/world"
)

// BuildFaces emits one unmerged face per exposed cell face. Cells are scanned
// y, then z, then x; each cell tests the directions in enumeration order.
// Positions are offset like BuildGreedyMesh.
func BuildFaces(ext Extent, voxels VoxelReader, vis FaceVisibilityChecker, chunk world.ChunkCoord, opts ...Option) []Face {
	o := newOptions(opts)
	start := time.Now()
	stats := BuildStats{Mode: ModeNaive, Chunk: chunk}
	offset := gridOffset(ext, chunk)

	var faces []Face
	for y := 0; y < ext.Y; y++ {
		for z := 0; z < ext.Z; z++ {
			for x := 0; x < ext.X; x++ {
				t := voxels.VoxelAt(x, y, z)
				if t == world.VoxelAir {
					continue
				}
				pos := world.BlockPos{X: x, Y: y, Z: z}.Add(offset)
				for _, d := range world.Directions {
					if !vis.ShouldRenderFace(x, y, z, d) {
						continue
					}
					faces = append(faces, Face{Direction: d, Type: t, Position: pos})
					stats.Faces[d]++
				}
			}
		}
	}

	stats.Cells = stats.Faces
	stats.Duration = time.Since(start)
	o.report(stats)
	return faces
}
