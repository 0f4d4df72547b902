package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/graficador/internal/cli"
	"github.com/aretw0/graficador/internal/presentation/layers"
	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/editor"
	"github.com/aretw0/graficador/pkg/templates"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the template library",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Templates:")
		for _, name := range templates.Names() {
			fmt.Fprintln(out, "- "+name)
		}
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the layers a template inserts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed := editor.New(&domain.Design{ID: args[0], Name: args[0]})
		if _, err := ed.InsertTemplate(cmd.Context(), args[0]); err != nil {
			return err
		}
		design := ed.Design()
		design.SelectedID = ""
		pretty := cli.IsTerminal(os.Stdout)
		return cli.RenderLayers(cmd.OutOrStdout(), design, layers.Options{}, pretty, cli.TerminalWidth(os.Stdout))
	},
}

var templatesInsertCmd = &cobra.Command{
	Use:   "insert <design-id> <name>",
	Short: "Insert a template on top of a stored design",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var inserted []domain.Shape
		err := editDesign(cmd, args[0], func(ctx context.Context, ed *editor.Editor) error {
			var err error
			inserted, err = ed.InsertTemplate(ctx, args[1])
			return err
		})
		if err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Inserted %d shapes from '%s'.", len(inserted), args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesInsertCmd)
}
