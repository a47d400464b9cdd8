// Package cli provides the command-line interface for stackscope.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vcnlab/stackscope/internal/manifest"
	"github.com/vcnlab/stackscope/internal/tui"
)

// newDepsCmd creates the 'deps' command for parsing dependency manifests.
func newDepsCmd(global *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps <manifest>",
		Short: "Parse a pip-style dependency manifest",
		Long: `Parse a pip-style requirements file and report its requirements with
normalized names, extras, version constraints, and environment markers.

Malformed lines are reported with their line number; the first bad line
fails the command.

Examples:
  stackscope deps requirements.txt
  stackscope deps requirements.txt -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeps(cmd.OutOrStdout(), args[0], global)
		},
		SilenceUsage: true,
	}

	return cmd
}

// AddDepsCommand adds the deps command to the root command.
func AddDepsCommand(rootCmd *cobra.Command, global *GlobalFlags) {
	rootCmd.AddCommand(newDepsCmd(global))
}

func runDeps(w io.Writer, path string, global *GlobalFlags) error {
	m, err := manifest.ParseFile(path)
	if err != nil {
		return err
	}

	out := tui.NewOutput(w, global.Output)
	if global.Output == OutputJSON {
		return out.JSON(m)
	}

	table := tui.NewTable(w, []tui.TableColumn{
		{Name: "NAME", Width: 24, Align: tui.AlignLeft},
		{Name: "EXTRAS", Width: 16, Align: tui.AlignLeft},
		{Name: "CONSTRAINTS", Width: 24, Align: tui.AlignLeft},
		{Name: "MARKER", Width: 28, Align: tui.AlignLeft},
	})
	table.WriteHeader()
	for _, r := range m.Requirements {
		constraints := make([]string, 0, len(r.Constraints))
		for _, c := range r.Constraints {
			constraints = append(constraints, c.String())
		}
		table.WriteRow(
			r.NormalizedName(),
			strings.Join(r.Extras, ","),
			strings.Join(constraints, ","),
			r.Marker,
		)
	}
	_, _ = fmt.Fprintf(w, "\n%d requirements\n", len(m.Requirements))
	return nil
}
