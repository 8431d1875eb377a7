package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/taigrr/orb/pkg/config"
	"github.com/taigrr/orb/pkg/render"
)

func newRenderCmd() *cobra.Command {
	var (
		sf      sceneFlags
		output  string
		samples int
		depth   int
		normals bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the scene to a PNG or PPM file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			cfg, err := loadConfig(func(cfg *config.Config) {
				sf.apply(fs, cfg)
				if fs.Changed("output") {
					cfg.Output = output
				}
				if fs.Changed("samples") {
					cfg.Samples = samples
				}
				if fs.Changed("depth") {
					cfg.MaxDepth = depth
				}
			})
			if err != nil {
				return err
			}

			mode := render.ShadeDiffuse
			if normals {
				mode = render.ShadeNormals
			}
			return runRender(cmd.Context(), cfg, mode)
		},
	}

	sf.register(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.png or .ppm)")
	cmd.Flags().IntVarP(&samples, "samples", "s", 0, "Samples per pixel")
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "Maximum bounce depth")
	cmd.Flags().BoolVar(&normals, "normals", false, "Shade surface normals instead of path tracing")
	return cmd
}

func runRender(ctx context.Context, cfg *config.Config, mode render.Shading) error {
	log := slog.With("run", uuid.NewString())

	world, err := loadScene(cfg.Scene)
	if err != nil {
		return err
	}
	camera, err := render.NewCamera(cfg.Camera())
	if err != nil {
		return fmt.Errorf("create camera: %w", err)
	}

	r := render.NewRenderer(camera, world)
	r.Samples = cfg.Samples
	r.MaxDepth = cfg.MaxDepth
	r.Seed = cfg.Seed
	r.Workers = cfg.Workers
	r.Mode = mode
	r.Progress = progressLogger(log, camera.ImageHeight())

	log.Info("rendering",
		"width", camera.ImageWidth(),
		"height", camera.ImageHeight(),
		"spheres", world.Len(),
		"samples", r.Samples,
		"depth", r.MaxDepth,
		"shading", mode,
		"eye", camera.Position(),
	)

	start := time.Now()
	fb, err := r.Render(ctx)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	log.Debug("render finished", "elapsed", time.Since(start).Round(time.Millisecond))

	if err := fb.Save(cfg.Output); err != nil {
		return err
	}
	log.Info("image written", "path", cfg.Output, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// progressLogger reports scanlines remaining roughly every tenth of the image.
func progressLogger(log *slog.Logger, rows int) func(done, total int) {
	step := max(rows/10, 1)
	return func(done, total int) {
		if done%step == 0 || done == total {
			log.Debug("scanlines remaining", "remaining", total-done, "total", total)
		}
	}
}
