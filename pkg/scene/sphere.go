package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/orb/pkg/math3d"
)

// ErrInvalidRadius is returned when a sphere is built with a radius that is
// not a positive finite number.
var ErrInvalidRadius = errors.New("sphere radius must be positive and finite")

// minDirectionLenSq is the smallest squared ray direction length for which the
// quadratic is solved. Shorter directions are treated as misses.
const minDirectionLenSq = 1e-16

// Sphere is an immutable sphere. It is safe to share between scenes and
// goroutines.
type Sphere struct {
	centre math3d.Vec3
	radius float64
}

// NewSphere creates a sphere, rejecting non-positive or non-finite radii.
func NewSphere(centre math3d.Vec3, radius float64) (*Sphere, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("new sphere at %v: %w (got %v)", centre, ErrInvalidRadius, radius)
	}
	return &Sphere{centre: centre, radius: radius}, nil
}

// MustSphere is like NewSphere but panics on an invalid radius. It is meant
// for scenes built from constants.
func MustSphere(centre math3d.Vec3, radius float64) *Sphere {
	s, err := NewSphere(centre, radius)
	if err != nil {
		panic(err)
	}
	return s
}

// Centre returns the sphere centre.
func (s *Sphere) Centre() math3d.Vec3 {
	return s.centre
}

// Radius returns the sphere radius.
func (s *Sphere) Radius() float64 {
	return s.radius
}

// Hit solves |O + tD - C|² = r² using the half-b form of the quadratic and
// returns the smaller root in [tMin, tMax], falling back to the larger one.
func (s *Sphere) Hit(r math3d.Ray, tMin, tMax float64) (HitRecord, bool) {
	oc := r.Origin.Sub(s.centre)
	a := r.Direction.LenSq()
	if a < minDirectionLenSq {
		return HitRecord{}, false
	}
	halfB := oc.Dot(r.Direction)
	c := oc.LenSq() - s.radius*s.radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return HitRecord{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root < tMin || tMax < root {
		root = (-halfB + sqrtD) / a
		if root < tMin || tMax < root {
			return HitRecord{}, false
		}
	}

	rec := HitRecord{T: root, Point: r.At(root)}
	outward := rec.Point.Sub(s.centre).Div(s.radius)
	rec.SetFaceNormal(r, outward)
	return rec, true
}
