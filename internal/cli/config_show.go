// Package cli provides the command-line interface for stackscope.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vcnlab/stackscope/internal/config"
	"github.com/vcnlab/stackscope/internal/tui"
)

// ConfigShowFlags holds flags specific to the config show command.
type ConfigShowFlags struct {
	// OutputFormat specifies the output format (yaml or json).
	OutputFormat string
}

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(rootCmd *cobra.Command) {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage stackscope configuration",
		Long: `Manage stackscope configuration.

Configuration is layered: flags > STACKSCOPE_* environment variables >
project .stackscope/config.yaml > global ~/.stackscope/config.yaml >
built-in defaults.`,
	}

	flags := &ConfigShowFlags{}
	configCmd.AddCommand(newConfigShowCmd(flags))

	rootCmd.AddCommand(configCmd)
}

// newConfigShowCmd creates the 'config show' subcommand.
func newConfigShowCmd(flags *ConfigShowFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective stackscope configuration after all layers are
merged, along with the config file paths that were consulted.

Examples:
  stackscope config show                 # YAML output
  stackscope config show --format json   # JSON output`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), flags)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&flags.OutputFormat, "format", "yaml", "output format (yaml or json)")

	return cmd
}

func runConfigShow(ctx context.Context, w io.Writer, flags *ConfigShowFlags) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if flags.OutputFormat == OutputJSON {
		out := tui.NewOutput(w, OutputJSON)
		return out.JSON(cfg)
	}

	writeConfigSources(w)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// writeConfigSources lists the config files that were consulted, marking the
// ones that exist.
func writeConfigSources(w io.Writer) {
	globalPath, err := config.GlobalConfigPath()
	if err == nil {
		_, _ = fmt.Fprintf(w, "# global:  %s%s\n", globalPath, existsMarker(globalPath))
	}
	projectPath := config.ProjectConfigPath()
	_, _ = fmt.Fprintf(w, "# project: %s%s\n", projectPath, existsMarker(projectPath))
}

func existsMarker(path string) string {
	if _, err := os.Stat(path); err != nil {
		return " (not found)"
	}
	return ""
}
