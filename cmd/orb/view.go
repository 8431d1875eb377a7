package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/orb/pkg/config"
	"github.com/taigrr/orb/pkg/math3d"
	"github.com/taigrr/orb/pkg/preview"
	"github.com/taigrr/orb/pkg/render"
	"github.com/taigrr/orb/pkg/scene"
)

// moveStep is how far one key press moves the eye, in world units.
const moveStep = 0.25

func newViewCmd() *cobra.Command {
	var (
		sf      sceneFlags
		fps     int
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Preview the scene live in the terminal",
		Long: "Preview the scene live in the terminal.\n\n" +
			"Controls:\n" +
			"  W/S or Up/Down     - Move forward/back\n" +
			"  A/D or Left/Right  - Move left/right\n" +
			"  Q/E                - Move down/up\n" +
			"  N                  - Toggle normal shading\n" +
			"  R                  - Reset the eye\n" +
			"  Esc                - Quit",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			cfg, err := loadConfig(func(cfg *config.Config) {
				sf.apply(fs, cfg)
				if fs.Changed("fps") {
					cfg.FPS = fps
				}
				if fs.Changed("log-file") {
					cfg.LogFile = logFile
				}
			})
			if err != nil {
				return err
			}
			world, err := loadScene(cfg.Scene)
			if err != nil {
				return err
			}
			return runView(cmd.Context(), cfg, world)
		},
	}
	sf.register(cmd.Flags())
	cmd.Flags().IntVar(&fps, "fps", 0, "Target frames per second")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs here while the preview runs (default: discard)")
	return cmd
}

// viewAction is sent from the event goroutine to the render loop.
type viewAction struct {
	move   math3d.Vec3
	reset  bool
	shade  bool
	resize *uv.WindowSizeEvent
	quit   bool
}

// keyAction maps a key press to an action. ok is false for unbound keys.
func keyAction(ev uv.KeyPressEvent) (viewAction, bool) {
	switch {
	case ev.MatchString("escape", "ctrl+c"):
		return viewAction{quit: true}, true
	case ev.MatchString("w", "up"):
		return viewAction{move: math3d.Forward().Scale(moveStep)}, true
	case ev.MatchString("s", "down"):
		return viewAction{move: math3d.Forward().Scale(-moveStep)}, true
	case ev.MatchString("a", "left"):
		return viewAction{move: math3d.V3(-moveStep, 0, 0)}, true
	case ev.MatchString("d", "right"):
		return viewAction{move: math3d.V3(moveStep, 0, 0)}, true
	case ev.MatchString("q"):
		return viewAction{move: math3d.V3(0, -moveStep, 0)}, true
	case ev.MatchString("e"):
		return viewAction{move: math3d.V3(0, moveStep, 0)}, true
	case ev.MatchString("r"):
		return viewAction{reset: true}, true
	case ev.MatchString("n"):
		return viewAction{shade: true}, true
	}
	return viewAction{}, false
}

// redirectLogs points the default logger at path, or discards logs when path
// is empty, so nothing is written over the alternate screen. restore puts the
// previous logger back and closes the file.
func redirectLogs(path string) (restore func() error, err error) {
	prev := slog.Default()
	if path == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return func() error {
			slog.SetDefault(prev)
			return nil
		}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel})))
	return func() error {
		slog.SetDefault(prev)
		return f.Close()
	}, nil
}

func runView(ctx context.Context, cfg *config.Config, world *scene.Scene) error {
	restoreLogs, err := redirectLogs(cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := restoreLogs(); err != nil {
			slog.Warn("close log file", "error", err)
		}
	}()

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	actions := make(chan viewAction, 16)
	go func() {
		for ev := range term.Events() {
			var (
				act viewAction
				ok  bool
			)
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				act, ok = viewAction{resize: &ev}, true
			case uv.KeyPressEvent:
				act, ok = keyAction(ev)
			}
			if !ok {
				continue
			}
			select {
			case actions <- act:
			case <-ctx.Done():
				return
			}
		}
	}()

	world.Freeze()
	home := cfg.EyePosition()
	dolly := preview.NewDolly(cfg.FPS, home)
	mode := render.ShadeDiffuse
	dirty := true

	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case act := <-actions:
			switch {
			case act.quit:
				return nil
			case act.reset:
				dolly.Reset(home)
			case act.shade:
				if mode == render.ShadeDiffuse {
					mode = render.ShadeNormals
				} else {
					mode = render.ShadeDiffuse
				}
			case act.resize != nil:
				width, height = act.resize.Width, act.resize.Height
				term.Erase()
				term.Resize(width, height)
			default:
				dolly.Nudge(act.move)
			}
			dirty = true

		case <-ticker.C:
			if !dolly.Settled() {
				dolly.Update()
				dirty = true
			}
			if !dirty {
				continue
			}
			dirty = false

			fb, err := renderPreview(ctx, cfg, world, dolly, mode, width, height)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			fb.Draw(term, uv.Rect(0, 0, width, height))
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}

// renderPreview renders one low-sample frame sized to the terminal.
func renderPreview(ctx context.Context, cfg *config.Config, world *scene.Scene, dolly *preview.Dolly, mode render.Shading, cols, rows int) (*render.Framebuffer, error) {
	eye := dolly.Position()
	fbWidth, fbHeight := render.TerminalSize(cols, rows)

	camCfg := cfg.Camera()
	camCfg.ImageWidth = fbWidth
	camCfg.AspectRatio = float64(fbWidth) / float64(fbHeight)
	camCfg.Position = eye
	camera, err := render.NewCamera(camCfg)
	if err != nil {
		return nil, fmt.Errorf("create camera: %w", err)
	}

	r := render.NewRenderer(camera, world)
	r.Samples = cfg.PreviewSamples
	r.MaxDepth = cfg.PreviewDepth
	r.Seed = cfg.Seed
	r.Workers = cfg.Workers
	r.Mode = mode

	start := time.Now()
	fb, err := r.Render(ctx)
	if err != nil {
		return nil, err
	}
	slog.Debug("preview frame", "width", fbWidth, "height", fbHeight, "eye", eye, "target", dolly.Target(), "elapsed", time.Since(start))
	return fb, nil
}
