package scene

import (
	"errors"

	"github.com/taigrr/orb/pkg/math3d"
)

// ErrFrozen is returned when a frozen scene is modified.
var ErrFrozen = errors.New("scene is frozen")

// Scene is an ordered collection of shared, read-only shapes. It is itself a
// Hittable that reports the nearest hit among its members.
//
// A scene is mutable until Freeze is called. Rendering freezes the scene, after
// which it may be read from any number of goroutines without locking.
type Scene struct {
	objects []Hittable
	frozen  bool
}

// New creates a scene holding the given shapes in order. Nil shapes are
// skipped.
func New(objects ...Hittable) *Scene {
	s := &Scene{}
	_ = s.Add(objects...) // a fresh scene is never frozen
	return s
}

// Add appends shapes to the scene. Nil shapes are skipped.
func (s *Scene) Add(objects ...Hittable) error {
	if s.frozen {
		return ErrFrozen
	}
	for _, o := range objects {
		if o != nil {
			s.objects = append(s.objects, o)
		}
	}
	return nil
}

// Clear removes every shape. The shapes themselves are untouched and remain
// valid in any other scene that references them.
func (s *Scene) Clear() error {
	if s.frozen {
		return ErrFrozen
	}
	s.objects = nil
	return nil
}

// Freeze marks the scene read-only.
func (s *Scene) Freeze() {
	s.frozen = true
}

// Frozen reports whether Freeze has been called.
func (s *Scene) Frozen() bool {
	return s.frozen
}

// Len returns the number of shapes.
func (s *Scene) Len() int {
	return len(s.objects)
}

// Objects returns a copy of the shape list.
func (s *Scene) Objects() []Hittable {
	out := make([]Hittable, len(s.objects))
	copy(out, s.objects)
	return out
}

// Hit scans every member, shrinking the upper bound to the closest hit found
// so far, so the result is the nearest hit overall.
func (s *Scene) Hit(r math3d.Ray, tMin, tMax float64) (HitRecord, bool) {
	var closest HitRecord
	hitAnything := false
	closestSoFar := tMax

	for _, o := range s.objects {
		if rec, ok := o.Hit(r, tMin, closestSoFar); ok {
			hitAnything = true
			closestSoFar = rec.T
			closest = rec
		}
	}

	return closest, hitAnything
}

// Single returns a scene with one sphere of radius 0.5 centred at (0, 0, -1).
func Single() *Scene {
	return New(MustSphere(math3d.V3(0, 0, -1), 0.5))
}

// Default returns the reference scene: the unit-distance sphere resting on a
// large ground sphere.
func Default() *Scene {
	return New(
		MustSphere(math3d.V3(0, 0, -1), 0.5),
		MustSphere(math3d.V3(0, -100.5, -1), 100),
	)
}
