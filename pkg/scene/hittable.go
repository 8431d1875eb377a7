// Package scene defines the intersection protocol and the sphere geometry
// that rays are traced against.
package scene

import "github.com/taigrr/orb/pkg/math3d"

// HitRecord describes where a ray first meets a surface.
type HitRecord struct {
	Point     math3d.Vec3 // Intersection point
	Normal    math3d.Vec3 // Unit normal, facing against the incoming ray
	T         float64     // Ray parameter of the intersection
	FrontFace bool        // True if the ray arrived from outside the surface
}

// SetFaceNormal orients the record's normal against the ray direction.
// outward must be unit length.
func (h *HitRecord) SetFaceNormal(r math3d.Ray, outward math3d.Vec3) {
	h.FrontFace = r.Direction.Dot(outward) < 0
	if h.FrontFace {
		h.Normal = outward
	} else {
		h.Normal = outward.Negate()
	}
}

// Hittable is anything a ray can be intersected with.
//
// Hit returns the nearest intersection whose parameter lies in [tMin, tMax].
// A miss is reported with ok == false; it is never an error.
//
// The record's normal satisfies dot(normal, r.Direction) <= 0. The product is
// zero, not negative, for a ray that exactly grazes the surface.
type Hittable interface {
	Hit(r math3d.Ray, tMin, tMax float64) (rec HitRecord, ok bool)
}
