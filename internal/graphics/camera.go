package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const maxPitch = 89.0

// Camera orbits a target point and produces view and projection matrices.
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	Target mgl32.Vec3
	Radius float32
	Yaw    float32 // degrees around +Y
	Pitch  float32 // degrees above the XZ plane
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:       60.0,
		NearPlane: 0.1,
		FarPlane:  1000.0,
		Radius:    48,
		Yaw:       45,
		Pitch:     30,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio. A zero height (minimized window) is
// ignored.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// Position is the eye position on the orbit sphere.
func (c *Camera) Position() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	offset := mgl32.Vec3{
		float32(math.Cos(pitch) * math.Cos(yaw)),
		float32(math.Sin(pitch)),
		float32(math.Cos(pitch) * math.Sin(yaw)),
	}
	return c.Target.Add(offset.Mul(c.Radius))
}

// Orbit rotates the eye by deltaYaw and deltaPitch degrees. Pitch is clamped
// short of the poles so the up vector stays valid.
func (c *Camera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw = float32(math.Mod(float64(c.Yaw+deltaYaw), 360))
	c.Pitch = mgl32.Clamp(c.Pitch+deltaPitch, -maxPitch, maxPitch)
}

// Zoom scales the orbit radius, never below the near plane.
func (c *Camera) Zoom(factor float32) {
	c.Radius *= factor
	if c.Radius < c.NearPlane*10 {
		c.Radius = c.NearPlane * 10
	}
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}
