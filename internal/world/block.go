package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// VoxelType tags the material of a single cell.
type VoxelType uint16

const (
	VoxelAir VoxelType = iota
	VoxelGrass
	VoxelDirt
	VoxelStone
	VoxelSand
	VoxelWater
	VoxelWood
	VoxelLeaves

	voxelTypeCount
)

// VoxelSize is the edge length of one voxel in world units.
const VoxelSize = 1.0

type voxelInfo struct {
	name        string
	color       mgl32.Vec4
	transparent bool
}

var voxelTable = [voxelTypeCount]voxelInfo{
	VoxelAir:    {name: "air", color: mgl32.Vec4{0, 0, 0, 0}, transparent: true},
	VoxelGrass:  {name: "grass", color: mgl32.Vec4{0.4, 0.8, 0.2, 1.0}},
	VoxelDirt:   {name: "dirt", color: mgl32.Vec4{0.6, 0.4, 0.2, 1.0}},
	VoxelStone:  {name: "stone", color: mgl32.Vec4{0.7, 0.7, 0.7, 1.0}},
	VoxelSand:   {name: "sand", color: mgl32.Vec4{0.95, 0.95, 0.5, 1.0}},
	VoxelWater:  {name: "water", color: mgl32.Vec4{0.2, 0.5, 0.9, 0.7}, transparent: true},
	VoxelWood:   {name: "wood", color: mgl32.Vec4{0.5, 0.3, 0.1, 1.0}},
	VoxelLeaves: {name: "leaves", color: mgl32.Vec4{0.2, 0.6, 0.1, 0.9}, transparent: true},
}

// UnknownColor is returned for voxel types missing from the table.
var UnknownColor = mgl32.Vec4{1, 0, 1, 1}

// Known reports whether t is a registered voxel type.
func (t VoxelType) Known() bool {
	return t < voxelTypeCount
}

// Color returns the RGBA color used for every face of the voxel type.
func (t VoxelType) Color() mgl32.Vec4 {
	if !t.Known() {
		return UnknownColor
	}
	return voxelTable[t].color
}

// IsTransparent reports whether light (and visibility) passes through the type.
// Air, water and leaves are transparent; everything else, including unknown
// types, is opaque.
func (t VoxelType) IsTransparent() bool {
	if !t.Known() {
		return false
	}
	return voxelTable[t].transparent
}

func (t VoxelType) String() string {
	if !t.Known() {
		return "unknown"
	}
	return voxelTable[t].name
}

// ParseVoxelType looks a voxel type up by its lowercase name.
func ParseVoxelType(name string) (VoxelType, bool) {
	for t := VoxelAir; t < voxelTypeCount; t++ {
		if voxelTable[t].name == name {
			return t, true
		}
	}
	return VoxelAir, false
}
