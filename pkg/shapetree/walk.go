package shapetree

import (
	"fmt"

	"github.com/aretw0/graficador/pkg/domain"
)

// Walk visits every shape in pre-order (render order). Returning false from fn
// skips the children of the visited shape.
func Walk(shapes []domain.Shape, fn func(path Path, s domain.Shape) bool) {
	walk(shapes, nil, fn)
}

func walk(shapes []domain.Shape, prefix Path, fn func(Path, domain.Shape) bool) {
	for i, s := range shapes {
		path := append(prefix[:len(prefix):len(prefix)], i)
		if fn(path, s) && len(s.Children) > 0 {
			walk(s.Children, path, fn)
		}
	}
}

// Flatten returns the leaf shapes in render order. Group containers are expanded
// away and never appear in the result.
func Flatten(shapes []domain.Shape) []domain.Shape {
	out := make([]domain.Shape, 0, len(shapes))
	for _, s := range shapes {
		if s.IsGroup() {
			out = append(out, Flatten(s.Children)...)
			continue
		}
		s.Children = nil
		out = append(out, s)
	}
	return out
}

// CountLeaves returns the number of non-group shapes at any depth.
func CountLeaves(shapes []domain.Shape) int {
	n := 0
	for _, s := range shapes {
		if s.IsGroup() {
			n += CountLeaves(s.Children)
			continue
		}
		n++
	}
	return n
}

// IDs returns every id of the tree in pre-order.
func IDs(shapes []domain.Shape) []string {
	var ids []string
	Walk(shapes, func(_ Path, s domain.Shape) bool {
		ids = append(ids, s.ID)
		return true
	})
	return ids
}

// Clone returns a deep copy of the forest.
func Clone(shapes []domain.Shape) []domain.Shape {
	if shapes == nil {
		return nil
	}
	out := make([]domain.Shape, len(shapes))
	for i, s := range shapes {
		s.Children = Clone(s.Children)
		out[i] = s
	}
	return out
}

// Validate checks the structural invariants of a tree loaded from outside:
// non-empty ids unique across all depths, known types, children only on groups.
func Validate(shapes []domain.Shape) error {
	seen := make(map[string]bool)
	var err error
	Walk(shapes, func(path Path, s domain.Shape) bool {
		if err != nil {
			return false
		}
		switch {
		case s.ID == "":
			err = domain.NewValidationError(domain.KeyID, fmt.Sprintf("shape at %v has no id", []int(path)))
		case seen[s.ID]:
			err = domain.NewValidationError(domain.KeyID, fmt.Sprintf("duplicate id %q", s.ID))
		case !s.IsGroup() && len(s.Children) > 0:
			err = domain.NewValidationError(domain.KeyChildren, fmt.Sprintf("%s %q cannot have children", s.Type, s.ID))
		}
		if err == nil {
			if _, perr := domain.ParseShapeType(string(s.Type)); perr != nil {
				err = perr
			}
		}
		seen[s.ID] = true
		return err == nil
	})
	return err
}
