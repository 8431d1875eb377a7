// orb - sphere path tracer
// Renders scenes of diffuse spheres under a sky gradient, to an image file or
// live in the terminal.
//
// Usage:
//
//	orb render [--scene scene.glb] [-o image.png] [--samples 100] ...
//	orb view   [--scene scene.glb]
//
// Every flag also has an ORB_* environment variable; flags win.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// logLevel is shared by every handler the commands install.
var logLevel = new(slog.LevelVar)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "orb",
		Short: "Path trace scenes of diffuse spheres",
		Long: "orb renders spheres lit by a sky gradient with a recursive diffuse path tracer.\n" +
			"Scenes come from a built-in reference scene or from the mesh nodes of a glTF file.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel.Set(slog.LevelInfo)
			if verbose {
				logLevel.Set(slog.LevelDebug)
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
		},
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	root.AddCommand(newRenderCmd(), newViewCmd())
	return root
}
