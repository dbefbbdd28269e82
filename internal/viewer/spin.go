package viewer

import (
	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/prism/pkg/math3d"
)

// RotationAxis eases one rotation angle toward its target with a spring.
type RotationAxis struct {
	Position float64 // Current angle in radians
	Target   float64

	spring   harmonica.Spring
	velocity float64 // Spring velocity, internal
}

// NewRotationAxis creates an axis stepped at fps frames per second.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Frequency 6 settles a 5 degree step in a few frames; damping 1
		// is critically damped so the model never overshoots.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Nudge moves the target by delta radians.
func (a *RotationAxis) Nudge(delta float64) {
	a.Target += delta
}

// Update advances the spring by one frame.
func (a *RotationAxis) Update() {
	a.Position, a.velocity = a.spring.Update(a.Position, a.velocity, a.Target)
}

// Settled reports whether the axis has come to rest on its target.
func (a *RotationAxis) Settled() bool {
	const eps = 1e-4
	d := a.Target - a.Position
	return d < eps && d > -eps && a.velocity < eps && a.velocity > -eps
}

// RotationState holds the model's pitch, yaw and roll.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis

	// SpinRate turns the yaw target continuously, in radians per frame.
	SpinRate float64

	fps int
}

// NewRotationState creates a resting rotation stepped at fps.
func NewRotationState(fps int) *RotationState {
	return &RotationState{
		Pitch: NewRotationAxis(fps),
		Yaw:   NewRotationAxis(fps),
		Roll:  NewRotationAxis(fps),
		fps:   fps,
	}
}

// Update advances all three axes by one frame.
func (r *RotationState) Update() {
	r.Yaw.Target += r.SpinRate
	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

// Nudge moves the targets of all three axes.
func (r *RotationState) Nudge(pitch, yaw, roll float64) {
	r.Pitch.Nudge(pitch)
	r.Yaw.Nudge(yaw)
	r.Roll.Nudge(roll)
}

// Reset returns every axis to zero, keeping the spin rate.
func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}

// Matrix returns the current rotation as a model rotation matrix.
func (r *RotationState) Matrix() math3d.Mat4 {
	return math3d.Rotation(math3d.V3(r.Pitch.Position, r.Yaw.Position, r.Roll.Position))
}
