package main

import (
	"github.com/aretw0/graficador/internal/cli"
	"github.com/aretw0/graficador/pkg/archive"
	"github.com/aretw0/graficador/pkg/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [design-id]",
	Short: "Generate an Angular or Flutter project from a design",
	Long: `Renders the design for the chosen target and writes <project>.zip to the
output directory, or the plain file tree with --unpacked.
Reads a stored design, or a YAML/JSON document with --file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, cfg, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		flags := cmd.Flags()
		target, project, out := cfg.Export.Target, cfg.Export.Project, cfg.Export.OutputDir
		if flags.Changed("target") {
			target, _ = flags.GetString("target")
		}
		if flags.Changed("project") {
			project, _ = flags.GetString("project")
		}
		if flags.Changed("out") {
			out, _ = flags.GetString("out")
		}
		path, _ := flags.GetString("file")
		unpacked, _ := flags.GetBool("unpacked")

		ctx := cmd.Context()
		var fs *export.FileSet
		if path != "" {
			design, err := cli.OpenDesign(ctx, rt.Service, "", path)
			if err != nil {
				return err
			}
			fs, err = rt.Service.ExportShapes(ctx, design.Shapes, target, project)
			if err != nil {
				return err
			}
		} else {
			id := firstArg(args)
			if id == "" {
				return errMissingDesign
			}
			fs, err = rt.Service.Export(ctx, id, target, project)
			if err != nil {
				return err
			}
		}

		var dest string
		if unpacked {
			dest, err = cli.WriteTree(out, fs)
		} else {
			dest, err = archive.Write(out, fs)
		}
		if err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Exported %d files for %s to %s", fs.Len(), target, dest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("file", "f", "", "Read a design document instead of the store")
	exportCmd.Flags().StringP("target", "t", "", "Export target: angular or flutter (default from config)")
	exportCmd.Flags().StringP("project", "p", "", "Project name (default depends on the target)")
	exportCmd.Flags().StringP("out", "o", "", "Output directory (default from config)")
	exportCmd.Flags().Bool("unpacked", false, "Write the file tree instead of a zip archive")
}
