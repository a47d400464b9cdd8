// Package cli provides the command-line interface for stackscope.
package cli

import (
	_ "embed"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed guide.md
var guideMarkdown string

var (
	glamourRenderer     *glamour.TermRenderer //nolint:gochecknoglobals // cached renderer for performance
	glamourRendererOnce sync.Once             //nolint:gochecknoglobals // sync.Once for renderer initialization
)

// getGlamourRenderer returns a cached glamour renderer for markdown rendering.
// The renderer is initialized once and reused across all calls.
func getGlamourRenderer() *glamour.TermRenderer {
	glamourRendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err == nil {
			glamourRenderer = r
		}
	})
	return glamourRenderer
}

// newGuideCmd creates the 'guide' command.
func newGuideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guide",
		Short: "Show the usage guide",
		Long:  `Render the built-in usage guide covering every stackscope command.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGuide(cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	return cmd
}

// AddGuideCommand adds the guide command to the root command.
func AddGuideCommand(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newGuideCmd())
}

func runGuide(w io.Writer) error {
	renderer := getGlamourRenderer()
	if renderer == nil {
		// Renderer construction failed; fall back to the raw markdown.
		_, err := fmt.Fprint(w, guideMarkdown)
		return err
	}

	rendered, err := renderer.Render(guideMarkdown)
	if err != nil {
		_, werr := fmt.Fprint(w, guideMarkdown)
		return werr
	}

	_, err = fmt.Fprint(w, rendered)
	return err
}
