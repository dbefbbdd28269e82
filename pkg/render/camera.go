package render

import (
	"math"

	"github.com/taigrr/prism/pkg/math3d"
)

// MaxPitch keeps the view direction away from world up, where the
// look-at basis degenerates (89 degrees).
const MaxPitch = 89 * math.Pi / 180

// Camera is a free-flying first-person camera.
type Camera struct {
	// Eye position in world space
	Eye math3d.Vec3

	// Orientation in radians. Yaw 0 looks down -Z; positive pitch looks up.
	Yaw   float64
	Pitch float64

	// Speed is the distance moved per movement step.
	Speed float64
}

// NewCamera creates a camera at eye looking down -Z.
func NewCamera(eye math3d.Vec3, speed float64) *Camera {
	return &Camera{
		Eye:   eye,
		Speed: speed,
	}
}

// Forward returns the unit view direction derived from yaw and pitch.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the right direction vector (horizontal).
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(
		math.Cos(c.Yaw),
		0,
		-math.Sin(c.Yaw),
	)
}

// Up returns the camera's up direction vector.
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// MoveForward moves the eye along the view direction.
func (c *Camera) MoveForward(distance float64) {
	c.Eye = c.Eye.Add(c.Forward().Scale(distance))
}

// MoveBack moves the eye against the view direction.
func (c *Camera) MoveBack(distance float64) {
	c.MoveForward(-distance)
}

// MoveRight strafes the eye to the right.
func (c *Camera) MoveRight(distance float64) {
	c.Eye = c.Eye.Add(c.Right().Scale(distance))
}

// MoveLeft strafes the eye to the left.
func (c *Camera) MoveLeft(distance float64) {
	c.MoveRight(-distance)
}

// MoveUp moves the eye along world up (or down if negative).
func (c *Camera) MoveUp(distance float64) {
	c.Eye = c.Eye.Add(math3d.Up().Scale(distance))
}

// Rotate accumulates yaw and pitch (radians). Pitch is clamped to ±MaxPitch.
func (c *Camera) Rotate(deltaYaw, deltaPitch float64) {
	c.Yaw += deltaYaw
	c.Pitch = clampPitch(c.Pitch + deltaPitch)
}

// LookAt points the camera at a target.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Eye).Normalize()
	if dir.LenSq() == 0 {
		return
	}
	c.Pitch = clampPitch(math.Asin(dir.Y))
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
}

// ViewMatrix builds the right-handed look-at matrix from the eye toward
// eye+Forward with world up. It is recomputed on every call.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return math3d.LookAt(c.Eye, c.Eye.Add(c.Forward()), math3d.Up())
}

func clampPitch(p float64) float64 {
	return math.Max(-MaxPitch, math.Min(MaxPitch, p))
}
