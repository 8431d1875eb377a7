package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/orb/pkg/math3d"
)

// ErrInvalidCamera is returned when a camera is configured with a
// non-positive dimension.
var ErrInvalidCamera = errors.New("invalid camera")

// CameraConfig holds the inputs a Camera is derived from.
type CameraConfig struct {
	ImageWidth     int         // Output width in pixels
	AspectRatio    float64     // Width / Height
	ViewportHeight float64     // Height of the image plane in world units
	FocalLength    float64     // Distance from the eye to the image plane
	Position       math3d.Vec3 // Eye position
}

// DefaultCameraConfig returns a 400 pixel wide 16:9 camera at the origin.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		ImageWidth:     400,
		AspectRatio:    16.0 / 9.0,
		ViewportHeight: 2,
		FocalLength:    1,
		Position:       math3d.Zero3(),
	}
}

// Camera maps normalized viewport coordinates to world-space rays.
//
// The camera always looks down -Z with +Y up. All derived vectors are
// computed once in NewCamera; a Camera is immutable and safe for concurrent use.
type Camera struct {
	imageWidth  int
	imageHeight int

	position        math3d.Vec3
	horizontal      math3d.Vec3 // Full viewport width along +X
	vertical        math3d.Vec3 // Full viewport height along +Y
	lowerLeftCorner math3d.Vec3 // World position of viewport (0, 0)
}

// NewCamera derives a camera from cfg.
func NewCamera(cfg CameraConfig) (*Camera, error) {
	switch {
	case cfg.ImageWidth <= 0:
		return nil, fmt.Errorf("%w: image width %d", ErrInvalidCamera, cfg.ImageWidth)
	case !(cfg.AspectRatio > 0) || math.IsInf(cfg.AspectRatio, 0):
		return nil, fmt.Errorf("%w: aspect ratio %v", ErrInvalidCamera, cfg.AspectRatio)
	case !(cfg.ViewportHeight > 0) || math.IsInf(cfg.ViewportHeight, 0):
		return nil, fmt.Errorf("%w: viewport height %v", ErrInvalidCamera, cfg.ViewportHeight)
	case !(cfg.FocalLength > 0) || math.IsInf(cfg.FocalLength, 0):
		return nil, fmt.Errorf("%w: focal length %v", ErrInvalidCamera, cfg.FocalLength)
	}

	height := max(int(math.Round(float64(cfg.ImageWidth)/cfg.AspectRatio)), 1)

	viewportWidth := cfg.AspectRatio * cfg.ViewportHeight
	horizontal := math3d.V3(viewportWidth, 0, 0)
	vertical := math3d.V3(0, cfg.ViewportHeight, 0)
	lowerLeft := cfg.Position.
		Sub(horizontal.Scale(0.5)).
		Sub(vertical.Scale(0.5)).
		Add(math3d.Forward().Scale(cfg.FocalLength))

	return &Camera{
		imageWidth:      cfg.ImageWidth,
		imageHeight:     height,
		position:        cfg.Position,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeft,
	}, nil
}

// GetRay returns the ray from the eye through viewport point (u, v), where
// (0, 0) is the lower-left and (1, 1) the upper-right corner.
func (c *Camera) GetRay(u, v float64) math3d.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Scale(u)).
		Add(c.vertical.Scale(v)).
		Sub(c.position)
	return math3d.NewRay(c.position, direction)
}

// ImageWidth returns the output width in pixels.
func (c *Camera) ImageWidth() int {
	return c.imageWidth
}

// ImageHeight returns the output height in pixels.
func (c *Camera) ImageHeight() int {
	return c.imageHeight
}

// Position returns the eye position.
func (c *Camera) Position() math3d.Vec3 {
	return c.position
}
