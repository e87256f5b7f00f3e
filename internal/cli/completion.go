package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/synthtext/pkg/config"
	"github.com/matzehuels/synthtext/pkg/io"
	"github.com/matzehuels/synthtext/pkg/raster"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for synthtext.

Bash:
  $ source <(synthtext completion bash)

Zsh:
  $ synthtext completion zsh > "${fpath[1]}/_synthtext"

Fish:
  $ synthtext completion fish > ~/.config/fish/completions/synthtext.fish

PowerShell:
  PS> synthtext completion powershell | Out-String | Invoke-Expression

Variant names are completed from the file given with --config.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// registerFlagCompletions attaches value completion to the flags that take
// a fixed set of values.
func (c *CLI) registerFlagCompletions(root *cobra.Command) {
	fixed := func(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		}
	}

	for _, cmd := range root.Commands() {
		if cmd.Flags().Lookup("backend") != nil {
			_ = cmd.RegisterFlagCompletionFunc("backend", fixed(raster.BackendBrowser, raster.BackendRSVG))
		}
		if cmd.Flags().Lookup("format") != nil {
			_ = cmd.RegisterFlagCompletionFunc("format", fixed(string(io.FormatJPEG), string(io.FormatPNG)))
		}
		if cmd.Flags().Lookup("variant") != nil {
			_ = cmd.RegisterFlagCompletionFunc("variant", c.completeVariants)
		}
	}
}

// completeVariants lists the variant names of the active configuration.
func (c *CLI) completeVariants(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := c.loadConfig()
	if err != nil {
		cfg = config.Default()
	}
	names := make([]string, 0, len(cfg.Variants))
	for _, v := range cfg.Variants {
		names = append(names, v.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
