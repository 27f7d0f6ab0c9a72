package cmd

import (
	"github.com/spf13/cobra"
)

var compareOpts renderOptions

var compareCmd = &cobra.Command{
	Use:   "compare <input> <reference>",
	Short: "Render the relative difference between two cube maps",
	Long: `Renders every face of <input> as the per-texel relative difference
against the same face of <reference>:

  (ref - input) / max(|input|, |ref|) + 0.5   per channel, sRGB encoded

Identical texels show as mid-grey; brighter reference channels push
toward white, darker toward black. Both arguments may be directories,
paired by relative path. A reference with a different face size is
refused and the input is rendered alone.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		o := compareOpts
		o.reference = args[1]
		return runRender(cmd.Context(), args[0], o)
	},
}

func init() {
	addRenderFlags(compareCmd, &compareOpts)
	rootCmd.AddCommand(compareCmd)
}
