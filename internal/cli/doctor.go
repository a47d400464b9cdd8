// Package cli provides the command-line interface for stackscope.
package cli

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/vcnlab/stackscope/internal/config"
	"github.com/vcnlab/stackscope/internal/doctor"
	"github.com/vcnlab/stackscope/internal/tui"
)

// newDoctorCmd creates the 'doctor' command for environment checks.
func newDoctorCmd(global *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check environment prerequisites",
		Long: `Verify that the environment can run the interactive viewer: stdout is a
terminal, TERM is usable, the terminal reports color support, and the
configured preview directory is writable.

Exit codes:
  0: All required checks pass
  1: One or more required checks fail`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd.Context(), cmd.OutOrStdout(), global)
		},
		SilenceUsage: true,
	}

	return cmd
}

// AddDoctorCommand adds the doctor command to the root command.
func AddDoctorCommand(rootCmd *cobra.Command, global *GlobalFlags) {
	rootCmd.AddCommand(newDoctorCmd(global))
}

func runDoctor(ctx context.Context, w io.Writer, global *GlobalFlags) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	results, runErr := doctor.Run(doctor.Options{
		PreviewDir: cfg.Preview.Dir,
	})

	out := tui.NewOutput(w, global.Output)
	if global.Output == OutputJSON {
		if err := out.JSON(results); err != nil {
			return err
		}
		return runErr
	}

	for _, r := range results {
		line := r.Name
		if r.Detail != "" {
			line += ": " + r.Detail
		}
		switch r.Status {
		case doctor.StatusPass:
			out.Success(line)
		case doctor.StatusWarn:
			out.Warning(line)
		case doctor.StatusFail:
			out.Error(stderrors.New(line))
		}
	}

	return runErr
}
