// Package layers renders the layer tree of a design as Markdown.
package layers

import (
	"fmt"
	"strings"

	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/shapetree"
)

// ShortIDLen is how many trailing id characters label a layer.
const ShortIDLen = 4

// Options tunes the outline.
type Options struct {
	// FullIDs prints complete ids instead of their last ShortIDLen characters.
	FullIDs bool
	// Collapsed lists group ids whose children are hidden.
	Collapsed []string
}

// Outline produces a Markdown list of the layers in z-order (bottom first),
// nesting group children under their group. The selected layer is bold.
func Outline(design *domain.Design, opts Options) string {
	var sb strings.Builder
	title := design.Name
	if title == "" {
		title = design.ID
	}
	fmt.Fprintf(&sb, "# Layers: %s\n\n", title)

	if len(design.Shapes) == 0 {
		sb.WriteString("_No shapes on the canvas_\n")
		return sb.String()
	}

	collapsed := make(map[string]bool, len(opts.Collapsed))
	for _, id := range opts.Collapsed {
		collapsed[id] = true
	}

	shapetree.Walk(design.Shapes, func(path shapetree.Path, s domain.Shape) bool {
		sb.WriteString(strings.Repeat("  ", path.Depth()))
		sb.WriteString("- ")

		label := fmt.Sprintf("%s `%s`", s.Type, shortID(s.ID, opts.FullIDs))
		if s.ID == design.SelectedID {
			label = "**" + label + "** (selected)"
		}
		sb.WriteString(label)

		if s.IsGroup() {
			fmt.Fprintf(&sb, " [%d]", len(s.Children))
			if collapsed[s.ID] {
				sb.WriteString(" ...")
			}
		} else if s.Type == domain.ShapeText && s.Text != "" {
			fmt.Fprintf(&sb, ": %q", s.Text)
		}
		sb.WriteString("\n")
		return !collapsed[s.ID]
	})

	fmt.Fprintf(&sb, "\n%d layers, %d drawable\n", len(shapetree.IDs(design.Shapes)), shapetree.CountLeaves(design.Shapes))
	return sb.String()
}

func shortID(id string, full bool) string {
	if full || len(id) <= ShortIDLen {
		return id
	}
	return id[len(id)-ShortIDLen:]
}
