package render

import (
	"math"
	"math/rand/v2"

	"github.com/taigrr/orb/pkg/math3d"
	"github.com/taigrr/orb/pkg/scene"
)

// Sky gradient end points.
var (
	skyHorizon = math3d.V3(1, 1, 1)
	skyZenith  = math3d.V3(0.5, 0.7, 1.0)
)

// albedo is the fraction of light a diffuse bounce keeps.
const albedo = 0.5

// Shading selects how a ray is turned into a color.
type Shading int

const (
	ShadeDiffuse Shading = iota // Recursive diffuse path tracing
	ShadeNormals                // Surface normals mapped to RGB, no bounces
)

// String returns the shading mode name.
func (s Shading) String() string {
	switch s {
	case ShadeNormals:
		return "normals"
	default:
		return "diffuse"
	}
}

// Sky returns the background color seen along r: white at the horizon
// blending to light blue overhead.
func Sky(r math3d.Ray) math3d.Vec3 {
	unit := r.Direction.Normalize()
	t := 0.5 * (unit.Y + 1)
	return skyHorizon.Lerp(skyZenith, t)
}

// RayColor returns the linear radiance arriving along r.
//
// Each hit spawns one bounce toward p + n + a random point in the unit ball and
// keeps half of what that bounce returns. depth is the remaining bounce budget;
// a ray with no budget left is absorbed and returns black.
func RayColor(r math3d.Ray, world scene.Hittable, depth int, rng *rand.Rand) math3d.Vec3 {
	if depth <= 0 {
		return math3d.Zero3()
	}

	rec, ok := world.Hit(r, 0, math.Inf(1))
	if !ok {
		return Sky(r)
	}

	target := rec.Point.Add(rec.Normal).Add(math3d.RandomInUnitSphere(rng))
	bounce := math3d.NewRay(rec.Point, target.Sub(rec.Point))
	return RayColor(bounce, world, depth-1, rng).Scale(albedo)
}

// NormalColor maps the normal of the first surface hit to RGB in [0, 1].
// Misses return the sky.
func NormalColor(r math3d.Ray, world scene.Hittable) math3d.Vec3 {
	rec, ok := world.Hit(r, 0, math.Inf(1))
	if !ok {
		return Sky(r)
	}
	return rec.Normal.Add(math3d.One3()).Scale(0.5)
}
