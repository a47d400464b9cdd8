// Package cli provides the command-line interface for stackscope.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vcnlab/stackscope/internal/config"
	"github.com/vcnlab/stackscope/internal/errors"
	"github.com/vcnlab/stackscope/internal/stack"
	"github.com/vcnlab/stackscope/internal/tui"
)

// ViewFlags holds flags specific to the view command.
type ViewFlags struct {
	// FPS overrides the configured initial playback rate.
	FPS int

	// Color overrides the configured color mode (auto, always, never).
	Color string

	// PerFrame starts in per-frame contrast mode.
	PerFrame bool
}

// newViewCmd creates the 'view' command for interactive playback.
func newViewCmd(flags *ViewFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "View a stack interactively in the terminal",
		Long: `Open a TIFF stack in an interactive full-screen terminal viewer.

Keys:
  ←/h ↔ →/l      step one frame
  [ / ]          jump ten frames
  home/g end/G   first / last frame
  space          play / pause
  + / -          faster / slower
  c              toggle per-frame contrast
  r              reset frame, speed, and contrast
  ?              toggle help
  q / esc        quit

The viewer needs a real terminal; it refuses to start when stdout is
redirected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), args[0], flags)
		},
		SilenceUsage: true,
	}

	cmd.Flags().IntVar(&flags.FPS, "fps", 0, "initial playback rate (default from config)")
	cmd.Flags().StringVar(&flags.Color, "color", "", "color mode: auto, always, never (default from config)")
	cmd.Flags().BoolVar(&flags.PerFrame, "per-frame", false, "start in per-frame contrast mode")

	return cmd
}

// AddViewCommand adds the view command to the root command.
func AddViewCommand(rootCmd *cobra.Command) {
	flags := &ViewFlags{}
	rootCmd.AddCommand(newViewCmd(flags))
}

func runView(ctx context.Context, path string, flags *ViewFlags) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.Wrap(errors.ErrNotATerminal, "view needs an interactive terminal")
	}

	cfg, err := config.LoadWithOverrides(ctx, &config.Config{
		Playback: config.PlaybackConfig{
			FPS: flags.FPS,
		},
		Viewer: config.ViewerConfig{
			Color: flags.Color,
		},
	})
	if err != nil {
		return err
	}

	logger := GetLogger()
	logger.Debug().Str("path", path).Msg("loading stack for viewing")

	s, err := stack.Load(ctx, path)
	if err != nil {
		return err
	}

	opts := tui.ViewerOptions{
		Source:         path,
		FPS:            cfg.Playback.FPS,
		Loop:           cfg.Playback.Loop,
		PerFrame:       flags.PerFrame || cfg.Contrast.PerFrame,
		LowPercentile:  cfg.Contrast.LowPercentile,
		HighPercentile: cfg.Contrast.HighPercentile,
		Color:          tui.ResolveColorMode(cfg.Viewer.Color),
	}

	return tui.RunViewer(ctx, s, opts)
}
