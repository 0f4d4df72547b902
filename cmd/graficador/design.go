package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/graficador/internal/cli"
	"github.com/aretw0/graficador/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [design-id]",
	Short: "Create an empty design",
	Long:  `Creates an empty design in the configured store. A random id is generated when none is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		var id string
		if len(args) > 0 {
			id = args[0]
		}

		rt, _, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		design, err := rt.Service.CreateDesign(cmd.Context(), id, name)
		if err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Design '%s' created.", design.ID)
		return nil
	},
}

var designCmd = &cobra.Command{
	Use:   "design",
	Short: "Manage stored designs",
	Long:  `List, inspect, import and remove designs held in the configured store.`,
}

var designLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored designs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ids, err := rt.Service.Designs(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No designs found.")
			return nil
		}
		fmt.Fprintln(out, "Designs:")
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var designShowCmd = &cobra.Command{
	Use:   "show <design-id>",
	Short: "Print a design as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		design, err := rt.Service.Design(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(design, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal design: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var designImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Store a YAML or JSON design document",
	Long:  `Reads a design document and stores it, replacing any design with the same id.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		design, err := file.ReadDocument(args[0])
		if err != nil {
			return err
		}
		if id, _ := cmd.Flags().GetString("id"); id != "" {
			design.ID = id
		}

		rt, _, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.Service.ReplaceDesign(cmd.Context(), design); err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Design '%s' imported.", design.ID)
		return nil
	},
}

var designSaveCmd = &cobra.Command{
	Use:   "save <design-id> <file>",
	Short: "Write a stored design to a YAML or JSON document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		design, err := rt.Service.Design(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := file.WriteDocument(args[1], design); err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Design '%s' written to %s.", design.ID, args[1])
		return nil
	},
}

var designRmCmd = &cobra.Command{
	Use:   "rm <design-id>...",
	Short: "Remove one or more designs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		failed := 0
		for _, id := range args {
			if err := rt.Service.DeleteDesign(cmd.Context(), id); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", id, err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed design '%s'\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d designs could not be removed", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().String("name", "", "Human readable name")

	rootCmd.AddCommand(designCmd)
	designCmd.AddCommand(designLsCmd)
	designCmd.AddCommand(designShowCmd)
	designCmd.AddCommand(designImportCmd)
	designCmd.AddCommand(designSaveCmd)
	designCmd.AddCommand(designRmCmd)
	designImportCmd.Flags().String("id", "", "Store under this id instead of the document's")
}
