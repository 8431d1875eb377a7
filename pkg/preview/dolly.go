// Package preview holds the interactive pieces of the terminal viewer.
package preview

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/orb/pkg/math3d"
)

// settleEpsilon is how close an axis must be to its target, with how little
// velocity, before it counts as at rest.
const settleEpsilon = 1e-3

// Axis eases one coordinate toward a target with a critically damped spring.
type Axis struct {
	Position float64
	Target   float64
	velocity float64
	spring   harmonica.Spring
}

// NewAxis creates an axis resting at pos.
func NewAxis(fps int, pos float64) Axis {
	return Axis{
		Position: pos,
		Target:   pos,
		// Frequency 6.0 = snappy, damping 1.0 = critically damped (no overshoot)
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Update advances the spring by one frame.
func (a *Axis) Update() {
	a.Position, a.velocity = a.spring.Update(a.Position, a.velocity, a.Target)
	if a.settled() {
		a.Position, a.velocity = a.Target, 0
	}
}

func (a *Axis) settled() bool {
	return math.Abs(a.Position-a.Target) < settleEpsilon && math.Abs(a.velocity) < settleEpsilon
}

// Dolly moves the camera eye smoothly. The camera itself is immutable, so the
// viewer rebuilds it from Position whenever the dolly is not settled.
type Dolly struct {
	X, Y, Z Axis
	fps     int
}

// NewDolly creates a dolly resting at start.
func NewDolly(fps int, start math3d.Vec3) *Dolly {
	d := &Dolly{fps: fps}
	d.Reset(start)
	return d
}

// Nudge moves the target by delta.
func (d *Dolly) Nudge(delta math3d.Vec3) {
	d.X.Target += delta.X
	d.Y.Target += delta.Y
	d.Z.Target += delta.Z
}

// Update advances every axis by one frame.
func (d *Dolly) Update() {
	d.X.Update()
	d.Y.Update()
	d.Z.Update()
}

// Position returns the current eye position.
func (d *Dolly) Position() math3d.Vec3 {
	return math3d.V3(d.X.Position, d.Y.Position, d.Z.Position)
}

// Target returns where the eye is heading.
func (d *Dolly) Target() math3d.Vec3 {
	return math3d.V3(d.X.Target, d.Y.Target, d.Z.Target)
}

// Settled reports whether every axis is at rest on its target.
func (d *Dolly) Settled() bool {
	return d.X.settled() && d.Y.settled() && d.Z.settled()
}

// Reset places the eye at pos with no motion.
func (d *Dolly) Reset(pos math3d.Vec3) {
	d.X = NewAxis(d.fps, pos.X)
	d.Y = NewAxis(d.fps, pos.Y)
	d.Z = NewAxis(d.fps, pos.Z)
}
