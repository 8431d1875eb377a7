package render

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"

	"github.com/taigrr/orb/pkg/scene"
)

func smallRenderer(t testing.TB, world *scene.Scene) *Renderer {
	t.Helper()
	cfg := DefaultCameraConfig()
	cfg.ImageWidth = 32
	r := NewRenderer(mustCamera(t, cfg), world)
	r.Samples = 2
	r.MaxDepth = 5
	return r
}

func TestRendererValidate(t *testing.T) {
	cam := mustCamera(t, DefaultCameraConfig())
	tests := []struct {
		name string
		r    *Renderer
	}{
		{"no camera", &Renderer{World: scene.New(), Samples: 1}},
		{"no world", &Renderer{Camera: cam, Samples: 1}},
		{"zero samples", &Renderer{Camera: cam, World: scene.New()}},
		{"negative depth", &Renderer{Camera: cam, World: scene.New(), Samples: 1, MaxDepth: -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.r.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}

	if err := NewRenderer(cam, scene.New()).Validate(); err != nil {
		t.Errorf("default renderer: %v", err)
	}
}

func TestRenderDimensionsAndFreeze(t *testing.T) {
	world := scene.Default()
	r := smallRenderer(t, world)

	fb, err := r.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if fb.Width != 32 || fb.Height != 18 {
		t.Errorf("framebuffer = %dx%d, want 32x18", fb.Width, fb.Height)
	}
	if !world.Frozen() {
		t.Error("Render should freeze the world")
	}
	for i, p := range fb.Pixels {
		if p.A != 255 {
			t.Fatalf("pixel %d not written: %v", i, p)
		}
	}
}

func TestRenderSameSeedAnyWorkerCount(t *testing.T) {
	serial := smallRenderer(t, scene.Default())
	serial.Workers = 1
	a, err := serial.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	parallel := smallRenderer(t, scene.Default())
	parallel.Workers = 4
	b, err := parallel.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !slices.Equal(a.Pixels, b.Pixels) {
		t.Error("1 and 4 workers produced different images for the same seed")
	}
}

func TestRenderSeedChangesNoise(t *testing.T) {
	a := smallRenderer(t, scene.Default())
	b := smallRenderer(t, scene.Default())
	b.Seed = 99

	fa, err := a.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	fb, err := b.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if slices.Equal(fa.Pixels, fb.Pixels) {
		t.Error("different seeds produced identical noisy images")
	}
}

func TestRenderEmptyWorldIsSkyGradient(t *testing.T) {
	r := smallRenderer(t, scene.New())
	fb, err := r.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Blue stays saturated everywhere; red fades toward the top of the frame.
	top := fb.GetPixel(16, 0)
	bottom := fb.GetPixel(16, fb.Height-1)
	if top.B != 255 || bottom.B != 255 {
		t.Errorf("blue channel = %d / %d, want 255", top.B, bottom.B)
	}
	if top.R >= bottom.R {
		t.Errorf("top red %d should be below bottom red %d", top.R, bottom.R)
	}
}

func TestRenderNormalsMode(t *testing.T) {
	r := smallRenderer(t, scene.Single())
	r.Mode = ShadeNormals
	r.Samples = 1

	c := r.SamplePixel(16, 9, r.RowRand(9))
	// Close to the centre ray, the normal is close to +Z.
	if c.Z < 0.95 || c.X < 0.35 || c.X > 0.65 {
		t.Errorf("centre normal color = %v, want about (0.5, 0.5, 1)", c)
	}
}

func TestSamplePixelAverages(t *testing.T) {
	r := smallRenderer(t, scene.New())
	r.Samples = 64

	c := r.SamplePixel(0, 0, rand.New(rand.NewPCG(1, 1)))
	// Every sample is a sky color, so the average is too: blue is exactly 1.
	if c.Z < 1-1e-12 || c.Z > 1+1e-12 {
		t.Errorf("average blue = %v, want 1", c.Z)
	}
	if c.X < 0.5 || c.X > 1 {
		t.Errorf("average red = %v, want within sky range", c.X)
	}
}

func TestRenderProgress(t *testing.T) {
	r := smallRenderer(t, scene.Single())
	r.Workers = 3

	var mu sync.Mutex
	calls, last := 0, 0
	r.Progress = func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		last = max(last, done)
		if total != 18 {
			t.Errorf("total = %d, want 18", total)
		}
	}

	if _, err := r.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if calls != 18 || last != 18 {
		t.Errorf("progress calls = %d, last = %d, want 18 and 18", calls, last)
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := smallRenderer(t, scene.Default()).Render(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRenderRejectsInvalid(t *testing.T) {
	r := smallRenderer(t, scene.Default())
	r.Samples = 0
	if _, err := r.Render(context.Background()); err == nil {
		t.Error("Render with zero samples should fail")
	}
}

func TestRenderRowMatchesSamplePixel(t *testing.T) {
	r := smallRenderer(t, scene.Default())
	fb := NewFramebuffer(r.Camera.ImageWidth(), r.Camera.ImageHeight())
	r.RenderRow(fb, 4)

	rng := r.RowRand(4)
	for x := 0; x < fb.Width; x++ {
		want := Quantize(r.SamplePixel(x, 4, rng))
		if got := fb.GetPixel(x, 4); got != want {
			t.Fatalf("pixel (%d, 4) = %v, want %v", x, got, want)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	cfg := DefaultCameraConfig()
	cfg.ImageWidth = 64
	cam, err := NewCamera(cfg)
	if err != nil {
		b.Fatal(err)
	}
	r := NewRenderer(cam, scene.Default())
	r.Samples = 4
	r.MaxDepth = 10
	for b.Loop() {
		if _, err := r.Render(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}
