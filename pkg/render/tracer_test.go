package render

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/orb/pkg/math3d"
	"github.com/taigrr/orb/pkg/scene"
)

func TestRayColorZeroDepthIsBlack(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	worlds := map[string]*scene.Scene{
		"empty":   scene.New(),
		"single":  scene.Single(),
		"default": scene.Default(),
	}
	r := math3d.NewRay(math3d.Zero3(), math3d.V3(0.3, 0.2, -1))

	for name, w := range worlds {
		if got := RayColor(r, w, 0, rng); got != math3d.Zero3() {
			t.Errorf("%s: RayColor(depth=0) = %v, want black", name, got)
		}
	}
}

func TestRayColorMissIsSky(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	// The sphere sits behind the camera, so nothing in front is ever hit.
	world := scene.New(scene.MustSphere(math3d.V3(0, 0, 5), 1))

	dirs := []math3d.Vec3{
		math3d.V3(0, 1, -1),
		math3d.V3(0, -1, -1),
		math3d.V3(2, 0.3, -1),
		math3d.V3(0, 0, -1),
	}
	for _, d := range dirs {
		r := math3d.NewRay(math3d.Zero3(), d)
		unit := d.Normalize()
		tt := 0.5 * (unit.Y + 1)
		want := math3d.V3(1-0.5*tt, 1-0.3*tt, 1)

		for _, depth := range []int{1, 5, 50} {
			if got := RayColor(r, world, depth, rng); !vecNear(got, want, 1e-12) {
				t.Errorf("dir %v depth %d: got %v, want %v", d, depth, got, want)
			}
		}
	}
}

func TestSkyEndpoints(t *testing.T) {
	up := Sky(math3d.NewRay(math3d.Zero3(), math3d.V3(0, 1, 0)))
	if !vecNear(up, math3d.V3(0.5, 0.7, 1), 1e-12) {
		t.Errorf("zenith = %v, want (0.5, 0.7, 1)", up)
	}
	down := Sky(math3d.NewRay(math3d.Zero3(), math3d.V3(0, -1, 0)))
	if !vecNear(down, math3d.V3(1, 1, 1), 1e-12) {
		t.Errorf("nadir = %v, want white", down)
	}
}

func TestRayColorSingleBounceIsAbsorbed(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	r := math3d.NewRay(math3d.Zero3(), math3d.V3(0, 0, -1))

	// One bounce of budget: the hit spends it, the bounce returns black.
	if got := RayColor(r, scene.Single(), 1, rng); got != math3d.Zero3() {
		t.Errorf("RayColor(depth=1) on a hit = %v, want black", got)
	}
}

func TestRayColorHitIsAttenuated(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	r := math3d.NewRay(math3d.Zero3(), math3d.V3(0, 0, -1))
	world := scene.Single()

	for range 200 {
		c := RayColor(r, world, 10, rng)
		for _, ch := range []float64{c.X, c.Y, c.Z} {
			if ch < 0 || ch > albedo+1e-12 || math.IsNaN(ch) {
				t.Fatalf("channel %v outside [0, %v]", ch, albedo)
			}
		}
	}
}

func TestRayColorDeterministic(t *testing.T) {
	r := math3d.NewRay(math3d.Zero3(), math3d.V3(0.1, -0.2, -1))
	world := scene.Default()

	a := RayColor(r, world, 50, rand.New(rand.NewPCG(3, 7)))
	b := RayColor(r, world, 50, rand.New(rand.NewPCG(3, 7)))
	if a != b {
		t.Errorf("same stream gave %v and %v", a, b)
	}
}

func TestNormalColor(t *testing.T) {
	world := scene.Single()

	hit := NormalColor(math3d.NewRay(math3d.Zero3(), math3d.V3(0, 0, -1)), world)
	if !vecNear(hit, math3d.V3(0.5, 0.5, 1), 1e-9) {
		t.Errorf("NormalColor on hit = %v, want (0.5, 0.5, 1)", hit)
	}

	missRay := math3d.NewRay(math3d.Zero3(), math3d.V3(0, 1, 0))
	if got := NormalColor(missRay, world); got != Sky(missRay) {
		t.Errorf("NormalColor on miss = %v, want sky %v", got, Sky(missRay))
	}
}

func TestShadingString(t *testing.T) {
	if ShadeDiffuse.String() != "diffuse" || ShadeNormals.String() != "normals" {
		t.Errorf("got %q and %q", ShadeDiffuse, ShadeNormals)
	}
}

func BenchmarkRayColor(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	world := scene.Default()
	r := math3d.NewRay(math3d.Zero3(), math3d.V3(0.1, -0.2, -1))

	for b.Loop() {
		_ = RayColor(r, world, DefaultMaxDepth, rng)
	}
}
