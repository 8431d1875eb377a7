package render

import (
	"context"
	"errors"
	"math/rand/v2"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/orb/pkg/math3d"
	"github.com/taigrr/orb/pkg/scene"
)

// Defaults for the sampling parameters.
const (
	DefaultSamples  = 20
	DefaultMaxDepth = 50
)

// Renderer samples a scene through a camera into a framebuffer.
type Renderer struct {
	Camera   *Camera
	World    *scene.Scene
	Samples  int     // Jittered samples averaged per pixel
	MaxDepth int     // Bounce budget per sample
	Seed     uint64  // Seed for the per-row random streams
	Workers  int     // Rows rendered concurrently; 0 means runtime.NumCPU()
	Mode     Shading // How rays are shaded

	// Progress, if set, is called after each finished row with the number of
	// rows finished so far. It may be called from several goroutines.
	Progress func(done, total int)
}

// NewRenderer creates a renderer with the default sampling parameters.
func NewRenderer(camera *Camera, world *scene.Scene) *Renderer {
	return &Renderer{
		Camera:   camera,
		World:    world,
		Samples:  DefaultSamples,
		MaxDepth: DefaultMaxDepth,
		Seed:     1,
	}
}

// Validate checks that the renderer can run.
func (r *Renderer) Validate() error {
	switch {
	case r.Camera == nil:
		return errors.New("renderer has no camera")
	case r.World == nil:
		return errors.New("renderer has no world")
	case r.Samples < 1:
		return errors.New("samples per pixel must be at least 1")
	case r.MaxDepth < 0:
		return errors.New("max depth must not be negative")
	}
	return nil
}

// RowRand returns the random stream used for row y. Every row owns an
// independent stream, so output does not depend on how rows are scheduled.
func (r *Renderer) RowRand(y int) *rand.Rand {
	return rand.New(rand.NewPCG(r.Seed, uint64(y)))
}

// SamplePixel returns the average linear color of Samples jittered rays
// through pixel (x, y), with y = 0 the top row.
func (r *Renderer) SamplePixel(x, y int, rng *rand.Rand) math3d.Vec3 {
	w, h := r.Camera.ImageWidth(), r.Camera.ImageHeight()
	du := float64(max(w-1, 1))
	dv := float64(max(h-1, 1))
	row := float64(h - 1 - y)

	var sum math3d.Vec3
	for range r.Samples {
		u := (float64(x) + rng.Float64()) / du
		v := (row + rng.Float64()) / dv
		sum = sum.Add(r.shade(r.Camera.GetRay(u, v), rng))
	}
	return sum.Div(float64(r.Samples))
}

func (r *Renderer) shade(ray math3d.Ray, rng *rand.Rand) math3d.Vec3 {
	if r.Mode == ShadeNormals {
		return NormalColor(ray, r.World)
	}
	return RayColor(ray, r.World, r.MaxDepth, rng)
}

// RenderRow fills row y of fb.
func (r *Renderer) RenderRow(fb *Framebuffer, y int) {
	rng := r.RowRand(y)
	for x := 0; x < fb.Width; x++ {
		fb.SetPixel(x, y, Quantize(r.SamplePixel(x, y, rng)))
	}
}

// Render freezes the world and renders a full frame.
//
// Rows are distributed over Workers goroutines. Each pixel is written exactly
// once and the world is only read, so no locking is needed. Cancelling ctx
// stops the render between rows and returns the context error.
func (r *Renderer) Render(ctx context.Context) (*Framebuffer, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.World.Freeze()

	w, h := r.Camera.ImageWidth(), r.Camera.ImageHeight()
	fb := NewFramebuffer(w, h)

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var done atomic.Int64
	for y := range h {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.RenderRow(fb, y)
			n := done.Add(1)
			if r.Progress != nil {
				r.Progress(int(n), h)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fb, nil
}
