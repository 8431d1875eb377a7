// Package config loads render settings from ORB_* environment variables.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/kelseyhightower/envconfig"
	"github.com/taigrr/orb/pkg/math3d"
	"github.com/taigrr/orb/pkg/render"
)

// Prefix is the environment variable prefix.
const Prefix = "ORB"

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every renderer and viewer setting. Each field is read from an
// ORB_ prefixed environment variable, falling back to its default tag.
type Config struct {
	Width          int       `envconfig:"WIDTH" default:"400"`
	AspectRatio    float64   `envconfig:"ASPECT_RATIO" default:"1.7777777777777777"`
	ViewportHeight float64   `envconfig:"VIEWPORT_HEIGHT" default:"2"`
	FocalLength    float64   `envconfig:"FOCAL_LENGTH" default:"1"`
	Eye            []float64 `envconfig:"EYE" default:"0,0,0"`
	Samples        int       `envconfig:"SAMPLES" default:"20"`
	MaxDepth       int       `envconfig:"MAX_DEPTH" default:"50"`
	Seed           uint64    `envconfig:"SEED" default:"1"`
	Workers        int       `envconfig:"WORKERS" default:"0"`
	Output         string    `envconfig:"OUTPUT" default:"image.png"`
	Scene          string    `envconfig:"SCENE" default:""`

	FPS            int    `envconfig:"FPS" default:"30"`
	PreviewSamples int    `envconfig:"PREVIEW_SAMPLES" default:"4"`
	PreviewDepth   int    `envconfig:"PREVIEW_DEPTH" default:"8"`
	LogFile        string `envconfig:"LOG_FILE" default:""`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first setting that cannot produce a render.
func (c *Config) Validate() error {
	switch {
	case c.Width <= 0:
		return fmt.Errorf("%w: width %d", ErrInvalidConfig, c.Width)
	case !positive(c.AspectRatio):
		return fmt.Errorf("%w: aspect ratio %v", ErrInvalidConfig, c.AspectRatio)
	case !positive(c.ViewportHeight):
		return fmt.Errorf("%w: viewport height %v", ErrInvalidConfig, c.ViewportHeight)
	case !positive(c.FocalLength):
		return fmt.Errorf("%w: focal length %v", ErrInvalidConfig, c.FocalLength)
	case len(c.Eye) != 3:
		return fmt.Errorf("%w: eye needs 3 components, got %d", ErrInvalidConfig, len(c.Eye))
	case c.Samples < 1:
		return fmt.Errorf("%w: samples %d", ErrInvalidConfig, c.Samples)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth %d", ErrInvalidConfig, c.MaxDepth)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.FPS)
	case c.PreviewSamples < 1:
		return fmt.Errorf("%w: preview samples %d", ErrInvalidConfig, c.PreviewSamples)
	case c.PreviewDepth < 0:
		return fmt.Errorf("%w: preview depth %d", ErrInvalidConfig, c.PreviewDepth)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// EyePosition returns Eye as a vector.
func (c *Config) EyePosition() math3d.Vec3 {
	if len(c.Eye) != 3 {
		return math3d.Zero3()
	}
	return math3d.V3(c.Eye[0], c.Eye[1], c.Eye[2])
}

// Camera returns the camera settings for a full render.
func (c *Config) Camera() render.CameraConfig {
	return render.CameraConfig{
		ImageWidth:     c.Width,
		AspectRatio:    c.AspectRatio,
		ViewportHeight: c.ViewportHeight,
		FocalLength:    c.FocalLength,
		Position:       c.EyePosition(),
	}
}
