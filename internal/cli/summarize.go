// Package cli provides the command-line interface for stackscope.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vcnlab/stackscope/internal/config"
	"github.com/vcnlab/stackscope/internal/preview"
	"github.com/vcnlab/stackscope/internal/signal"
	"github.com/vcnlab/stackscope/internal/stack"
	"github.com/vcnlab/stackscope/internal/tui"
)

// SummarizeFlags holds flags specific to the summarize command.
type SummarizeFlags struct {
	// Dir overrides the configured preview directory.
	Dir string

	// Force overwrites an existing preview directory without asking.
	Force bool

	// Low and High override the configured contrast percentiles.
	Low  float64
	High float64
}

// newSummarizeCmd creates the 'summarize' command.
func newSummarizeCmd(global *GlobalFlags, flags *SummarizeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize <file>",
		Short: "Write preview artifacts for a stack",
		Long: `Load a TIFF stack and write preview artifacts into a preview directory:
a contrast-stretched mid-frame PNG, mean and max projections as both PNG
and calibrated 16-bit TIFF, and a run.json manifest describing the run.

If the preview directory already holds a previous run, summarize asks
before overwriting it. Use --force to skip the prompt.

Examples:
  stackscope summarize movie.tif
  stackscope summarize movie.tif --dir out --force
  stackscope summarize movie.tif --low 0.5 --high 99.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cmd.Context(), cmd.OutOrStdout(), args[0], global, flags)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&flags.Dir, "dir", "", "preview directory (default from config)")
	cmd.Flags().BoolVar(&flags.Force, "force", false, "overwrite existing artifacts without asking")
	cmd.Flags().Float64Var(&flags.Low, "low", 0, "low contrast percentile (default from config)")
	cmd.Flags().Float64Var(&flags.High, "high", 0, "high contrast percentile (default from config)")

	return cmd
}

// AddSummarizeCommand adds the summarize command to the root command.
func AddSummarizeCommand(rootCmd *cobra.Command, global *GlobalFlags) {
	flags := &SummarizeFlags{}
	rootCmd.AddCommand(newSummarizeCmd(global, flags))
}

func runSummarize(ctx context.Context, w io.Writer, path string, global *GlobalFlags, flags *SummarizeFlags) error {
	sigHandler := signal.NewHandler(ctx)
	defer sigHandler.Stop()
	ctx = sigHandler.Context()

	logger := GetLogger()

	cfg, err := config.LoadWithOverrides(ctx, &config.Config{
		Contrast: config.ContrastConfig{
			LowPercentile:  flags.Low,
			HighPercentile: flags.High,
		},
		Preview: config.PreviewConfig{
			Dir: flags.Dir,
		},
	})
	if err != nil {
		return err
	}

	s, err := stack.Load(ctx, path)
	if err != nil {
		return err
	}

	opts := preview.Options{
		Dir:            cfg.Preview.Dir,
		LowPercentile:  cfg.Contrast.LowPercentile,
		HighPercentile: cfg.Contrast.HighPercentile,
		Force:          flags.Force || cfg.Preview.Overwrite,
		Logger:         logger,
	}
	if !opts.Force && isInteractive() {
		opts.Confirm = confirmOverwrite
	}

	result, err := preview.Summarize(ctx, s, path, opts)
	if err != nil {
		return err
	}

	out := tui.NewOutput(w, global.Output)
	if global.Output == OutputJSON {
		return out.JSON(result.Manifest)
	}

	out.Success(fmt.Sprintf("wrote %d artifacts to %s", len(result.Manifest.Artifacts), result.Dir))
	for _, a := range result.Manifest.Artifacts {
		out.Info(fmt.Sprintf("%s (%s, %s)", a.Name, a.Kind, a.Format))
	}
	return nil
}

// confirmOverwrite asks whether an existing preview directory may be replaced.
func confirmOverwrite(dir string) (bool, error) {
	var confirm bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Overwrite previews in '%s'?", dir)).
				Description("Existing artifacts will be replaced.").
				Affirmative("Yes, overwrite").
				Negative("No, keep them").
				Value(&confirm),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirm, nil
}

// isInteractive returns true if stdin is a terminal, meaning a prompt can be
// shown. Non-interactive runs proceed without asking.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
