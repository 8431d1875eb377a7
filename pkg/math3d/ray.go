package math3d

// Ray is a half-line Origin + t*Direction. Direction is not required to be
// unit length.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a ray from an origin and a direction.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point on the ray at parameter t.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}
