package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gridmerge.

To load completions:

Bash:
  $ source <(gridmerge completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ gridmerge completion bash > /etc/bash_completion.d/gridmerge
  # macOS:
  $ gridmerge completion bash > $(brew --prefix)/etc/bash_completion.d/gridmerge

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ gridmerge completion zsh > "${fpath[1]}/_gridmerge"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ gridmerge completion fish | source

  # To load completions for each session, execute once:
  $ gridmerge completion fish > ~/.config/fish/completions/gridmerge.fish

PowerShell:
  PS> gridmerge completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> gridmerge completion powershell > gridmerge.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
}
