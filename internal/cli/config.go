package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/synthtext/pkg/config"
)

// configCommand creates the configuration command group.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or check configuration",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configValidateCommand())

	return cmd
}

// configShowCommand prints the effective configuration as TOML.
func (c *CLI) configShowCommand() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Example: `  synthtext config show --defaults > synthtext.toml
  synthtext -c synthtext.toml config show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if !defaults {
				var err error
				if cfg, err = c.loadConfig(); err != nil {
					return err
				}
			}
			return cfg.Encode(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "ignore --config and print the built-in defaults")
	return cmd
}

// configValidateCommand checks a configuration file.
func (c *CLI) configValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				printError("%s", args[0])
				return err
			}
			printSuccess("%s is valid", args[0])
			printKeyValue("words", strconv.Itoa(len(cfg.Words)))
			printKeyValue("variants", strconv.Itoa(len(cfg.Variants)))
			printKeyValue("backend", cfg.Raster.Backend)
			printKeyValue("output", cfg.Output.Dir)
			printNextStep("Generate with it", "synthtext -c "+args[0]+" generate")
			return nil
		},
	}
}
