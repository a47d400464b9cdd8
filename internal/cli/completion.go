// Package cli provides the command-line interface for stackscope.
package cli

import (
	"github.com/spf13/cobra"
)

// AddCompletionCommand adds the completion command with per-shell subcommands
// to the root command. Cobra's default completion command is replaced so the
// help text and shell list stay explicit.
func AddCompletionCommand(rootCmd *cobra.Command) {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	completionCmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for stackscope.

To load completions in your current shell session:
  source <(stackscope completion bash)
  source <(stackscope completion zsh)
  stackscope completion fish | source`,
	}

	completionCmd.AddCommand(
		&cobra.Command{
			Use:   "bash",
			Short: "Generate bash completion script",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
			},
			SilenceUsage: true,
		},
		&cobra.Command{
			Use:   "zsh",
			Short: "Generate zsh completion script",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			},
			SilenceUsage: true,
		},
		&cobra.Command{
			Use:   "fish",
			Short: "Generate fish completion script",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			},
			SilenceUsage: true,
		},
		&cobra.Command{
			Use:   "powershell",
			Short: "Generate powershell completion script",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			},
			SilenceUsage: true,
		},
	)

	rootCmd.AddCommand(completionCmd)
}
