package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/synthtext/pkg/markup"
	"github.com/matzehuels/synthtext/pkg/shape"
)

// markupCommand prints the document a word would be rasterized from.
func (c *CLI) markupCommand() *cobra.Command {
	var (
		variant string
		svg     bool
		uri     bool
	)

	cmd := &cobra.Command{
		Use:   "markup <word>",
		Short: "Print the markup document for a word",
		Long: `Print the HTML document (or with --svg the standalone SVG) that a word is
rasterized from, after shaping. Useful for checking fonts and transforms in
a regular browser.`,
		Example: `  synthtext markup hello --variant italic > hello.html
  synthtext markup hello --svg | rsvg-convert -o hello.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			style, err := findVariant(cfg.Variants, variant)
			if err != nil {
				return err
			}
			shaper, err := shape.ByName(cfg.Shaper)
			if err != nil {
				return err
			}
			display, err := shaper.Shape(args[0])
			if err != nil {
				return err
			}

			doc := markup.Render(display, cfg.Fonts, style, cfg.Viewport())
			out := cmd.OutOrStdout()
			switch {
			case svg:
				fmt.Fprint(out, doc.SVG)
			case uri:
				fmt.Fprintln(out, markup.DataURI(doc.HTML))
			default:
				fmt.Fprint(out, doc.HTML)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "", "style variant name (default: the first configured variant)")
	cmd.Flags().BoolVar(&svg, "svg", false, "print the standalone SVG instead of HTML")
	cmd.Flags().BoolVar(&uri, "uri", false, "print the HTML as a data URI")
	cmd.MarkFlagsMutuallyExclusive("svg", "uri")

	return cmd
}
