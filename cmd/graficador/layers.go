package main

import (
	"errors"
	"os"

	"github.com/aretw0/graficador/internal/cli"
	"github.com/aretw0/graficador/internal/presentation/layers"
	"github.com/spf13/cobra"
)

var layersCmd = &cobra.Command{
	Use:   "layers [design-id]",
	Short: "Print the layer tree of a design",
	Long: `Prints the layers bottom first, nesting group children under their group.
Reads a stored design, or a YAML/JSON document with --file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		full, _ := cmd.Flags().GetBool("full-ids")
		collapsed, _ := cmd.Flags().GetStringSlice("collapse")
		plain, _ := cmd.Flags().GetBool("plain")

		rt, _, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		design, err := cli.OpenDesign(cmd.Context(), rt.Service, firstArg(args), path)
		if err != nil {
			return err
		}
		pretty := !plain && cli.IsTerminal(os.Stdout)
		opts := layers.Options{FullIDs: full, Collapsed: collapsed}
		return cli.RenderLayers(cmd.OutOrStdout(), design, opts, pretty, cli.TerminalWidth(os.Stdout))
	},
}

var errMissingDesign = errors.New("a design id or --file is required")

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	rootCmd.AddCommand(layersCmd)
	layersCmd.Flags().StringP("file", "f", "", "Read a design document instead of the store")
	layersCmd.Flags().Bool("full-ids", false, "Print complete shape ids")
	layersCmd.Flags().StringSlice("collapse", nil, "Group ids whose children are hidden")
	layersCmd.Flags().Bool("plain", false, "Print raw markdown even on a terminal")
}
