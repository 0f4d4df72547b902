package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/graficador/internal/cli"
	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/editor"
	"github.com/spf13/cobra"
)

var shapeCmd = &cobra.Command{
	Use:   "shape",
	Short: "Edit the shapes of a stored design",
}

var shapeAddCmd = &cobra.Command{
	Use:   "add <design-id> <type>",
	Short: "Add a shape on top of the design",
	Long: `Adds a shape and selects it. Properties are given as key=value pairs, e.g.
  graficador shape add board rectangle --prop x=10 --prop fill=#ff0000`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs, _ := cmd.Flags().GetStringArray("prop")
		props, err := cli.ParseProps(pairs)
		if err != nil {
			return err
		}
		t, err := domain.ParseShapeType(args[1])
		if err != nil {
			return err
		}

		var shape domain.Shape
		err = editDesign(cmd, args[0], func(ctx context.Context, ed *editor.Editor) error {
			shape, err = ed.AddShape(ctx, t, props)
			return err
		})
		if err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Added %s '%s'.", shape.Type, shape.ID)
		return nil
	},
}

// toggleCommand builds a command for the editor operations that take one
// shape id and report whether anything changed.
func toggleCommand(use, short, done string, op func(*editor.Editor, context.Context, string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <design-id> <shape-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var changed bool
			err := editDesign(cmd, args[0], func(ctx context.Context, ed *editor.Editor) error {
				changed = op(ed, ctx, args[1])
				return nil
			})
			if err != nil {
				return err
			}
			if !changed {
				cli.PrintSystemMessage(cmd.OutOrStdout(), "Nothing to do for '%s'.", args[1])
				return nil
			}
			cli.PrintSystemMessage(cmd.OutOrStdout(), "%s '%s'.", done, args[1])
			return nil
		},
	}
}

var shapeGroupCmd = &cobra.Command{
	Use:   "group <design-id> <shape-id> <shape-id>...",
	Short: "Wrap sibling shapes into a new group",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var group domain.Shape
		err := editDesign(cmd, args[0], func(ctx context.Context, ed *editor.Editor) error {
			var err error
			group, err = ed.GroupShapes(ctx, args[1:])
			return err
		})
		if err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Grouped %d shapes into '%s'.", len(group.Children), group.ID)
		return nil
	},
}

var shapeUngroupCmd = &cobra.Command{
	Use:   "ungroup <design-id> <group-id>",
	Short: "Dissolve a group into its parent list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var changed bool
		err := editDesign(cmd, args[0], func(ctx context.Context, ed *editor.Editor) error {
			var err error
			changed, err = ed.UngroupShapes(ctx, args[1])
			return err
		})
		if err != nil {
			return err
		}
		if !changed {
			cli.PrintSystemMessage(cmd.OutOrStdout(), "Nothing to do for '%s'.", args[1])
			return nil
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Ungrouped '%s'.", args[1])
		return nil
	},
}

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage image shapes",
}

var imageAddCmd = &cobra.Command{
	Use:   "add <design-id> <file>",
	Short: "Add an image file as a shape",
	Long:  `Embeds the image as a data URL, sized to its natural dimensions (scaled down to fit 400px).`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		var shape domain.Shape
		err = editDesign(cmd, args[0], func(ctx context.Context, ed *editor.Editor) error {
			shape, err = ed.AddImage(ctx, args[1], data)
			return err
		})
		if err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Added image '%s' (%gx%g).", shape.ID, shape.Width, shape.Height)
		return nil
	},
}

// editDesign runs fn against a stored design and saves the result.
func editDesign(cmd *cobra.Command, id string, fn func(context.Context, *editor.Editor) error) error {
	rt, _, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	_, err = rt.Service.Edit(ctx, id, func(ed *editor.Editor) error {
		return fn(ctx, ed)
	})
	if err != nil {
		return fmt.Errorf("edit of design '%s' failed: %w", id, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(shapeCmd)
	shapeCmd.AddCommand(shapeAddCmd)
	shapeAddCmd.Flags().StringArray("prop", nil, "Shape property as key=value (repeatable)")

	shapeCmd.AddCommand(toggleCommand("delete", "Delete a shape and its children", "Deleted", (*editor.Editor).DeleteShape))
	shapeCmd.AddCommand(toggleCommand("forward", "Move a shape one step up in z-order", "Moved forward", (*editor.Editor).MoveForward))
	shapeCmd.AddCommand(toggleCommand("backward", "Move a shape one step down in z-order", "Moved backward", (*editor.Editor).MoveBackward))
	shapeCmd.AddCommand(toggleCommand("select", "Select a shape", "Selected", (*editor.Editor).SelectShape))
	shapeCmd.AddCommand(shapeGroupCmd)
	shapeCmd.AddCommand(shapeUngroupCmd)

	rootCmd.AddCommand(imageCmd)
	imageCmd.AddCommand(imageAddCmd)
}
