package world

import "github.com/go-gl/mathgl/mgl32"

// Direction is one of the six axis-aligned face normals.
type Direction uint8

const (
	DirFront  Direction = iota // +Z
	DirBack                    // -Z
	DirTop                     // +Y
	DirBottom                  // -Y
	DirRight                   // +X
	DirLeft                    // -X
)

// NumDirections is the number of face directions.
const NumDirections = 6

// Directions lists every face direction in enumeration order. Meshers iterate
// this slice so their output order is stable.
var Directions = [NumDirections]Direction{DirFront, DirBack, DirTop, DirBottom, DirRight, DirLeft}

var directionOffsets = [NumDirections]ChunkCoord{
	DirFront:  {X: 0, Y: 0, Z: 1},
	DirBack:   {X: 0, Y: 0, Z: -1},
	DirTop:    {X: 0, Y: 1, Z: 0},
	DirBottom: {X: 0, Y: -1, Z: 0},
	DirRight:  {X: 1, Y: 0, Z: 0},
	DirLeft:   {X: -1, Y: 0, Z: 0},
}

var directionNames = [NumDirections]string{"front", "back", "top", "bottom", "right", "left"}

// Vector returns the unit offset of the direction.
func (d Direction) Vector() ChunkCoord {
	return directionOffsets[d]
}

// Offset returns the unit offset as three integers.
func (d Direction) Offset() (dx, dy, dz int) {
	v := directionOffsets[d]
	return v.X, v.Y, v.Z
}

// Normal returns the outward unit normal.
func (d Direction) Normal() mgl32.Vec3 {
	v := directionOffsets[d]
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// Positive reports whether the normal points along a positive axis.
func (d Direction) Positive() bool {
	v := directionOffsets[d]
	return v.X+v.Y+v.Z > 0
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return d ^ 1
}

// Valid reports whether d is one of the six enumerated directions.
func (d Direction) Valid() bool {
	return d < NumDirections
}

func (d Direction) String() string {
	if !d.Valid() {
		return "invalid"
	}
	return directionNames[d]
}

// DirectionFromVector maps a unit axis vector to its direction.
func DirectionFromVector(v ChunkCoord) (Direction, bool) {
	for _, d := range Directions {
		if directionOffsets[d] == v {
			return d, true
		}
	}
	return 0, false
}
