package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/taigrr/orb/pkg/config"
	"github.com/taigrr/orb/pkg/models"
	"github.com/taigrr/orb/pkg/scene"
)

// sceneFlags are shared by every command that needs a scene and a camera.
type sceneFlags struct {
	scene       string
	width       int
	aspect      float64
	viewport    float64
	focalLength float64
	eye         []float64
	workers     int
	seed        uint64
}

func (f *sceneFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.scene, "scene", "", "glTF/GLB file to import spheres from (default: reference scene)")
	fs.IntVarP(&f.width, "width", "w", 0, "Image width in pixels")
	fs.Float64Var(&f.aspect, "aspect", 0, "Aspect ratio (width / height)")
	fs.Float64Var(&f.viewport, "viewport-height", 0, "Viewport height in world units")
	fs.Float64Var(&f.focalLength, "focal-length", 0, "Distance from the eye to the image plane")
	fs.Float64SliceVar(&f.eye, "eye", nil, "Eye position as x,y,z")
	fs.IntVar(&f.workers, "workers", 0, "Rows rendered in parallel (0 = all CPUs)")
	fs.Uint64Var(&f.seed, "seed", 0, "Random seed")
}

// apply overrides cfg with every flag the user set explicitly.
func (f *sceneFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("scene") {
		cfg.Scene = f.scene
	}
	if fs.Changed("width") {
		cfg.Width = f.width
	}
	if fs.Changed("aspect") {
		cfg.AspectRatio = f.aspect
	}
	if fs.Changed("viewport-height") {
		cfg.ViewportHeight = f.viewport
	}
	if fs.Changed("focal-length") {
		cfg.FocalLength = f.focalLength
	}
	if fs.Changed("eye") {
		cfg.Eye = f.eye
	}
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fs.Changed("seed") {
		cfg.Seed = f.seed
	}
}

// loadConfig reads the environment, then applies flag overrides.
func loadConfig(apply ...func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	for _, fn := range apply {
		fn(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadScene returns the reference scene, or the spheres of a glTF file.
func loadScene(path string) (*scene.Scene, error) {
	if path == "" {
		return scene.Default(), nil
	}
	world, err := models.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	if world.Len() == 0 {
		return nil, fmt.Errorf("load scene: %s contains no mesh nodes", path)
	}
	return world, nil
}
