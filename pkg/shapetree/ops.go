package shapetree

import (
	"slices"

	"github.com/aretw0/graficador/pkg/domain"
)

// MoveForward swaps the shape with its next sibling (one step up in z-order).
// Unknown ids and shapes already on top leave the tree unchanged.
func MoveForward(shapes []domain.Shape, id string) ([]domain.Shape, bool) {
	return move(shapes, id, 1)
}

// MoveBackward swaps the shape with its previous sibling (one step down in z-order).
// Unknown ids and shapes already at the bottom leave the tree unchanged.
func MoveBackward(shapes []domain.Shape, id string) ([]domain.Shape, bool) {
	return move(shapes, id, -1)
}

func move(shapes []domain.Shape, id string, delta int) ([]domain.Shape, bool) {
	path, ok := Find(shapes, id)
	if !ok {
		return shapes, false
	}
	from := path.Index()
	to := from + delta
	if to < 0 || to >= len(Siblings(shapes, path.Parent())) {
		return shapes, false
	}
	return ReplaceSiblings(shapes, path.Parent(), func(list []domain.Shape) []domain.Shape {
		out := slices.Clone(list)
		out[from], out[to] = out[to], out[from]
		return out
	}), true
}

// Delete removes the first shape (pre-order) with the given id together with its subtree.
func Delete(shapes []domain.Shape, id string) ([]domain.Shape, bool) {
	path, ok := Find(shapes, id)
	if !ok {
		return shapes, false
	}
	idx := path.Index()
	return ReplaceSiblings(shapes, path.Parent(), func(list []domain.Shape) []domain.Shape {
		out := make([]domain.Shape, 0, len(list)-1)
		out = append(out, list[:idx]...)
		return append(out, list[idx+1:]...)
	}), true
}

// Group wraps the referenced shapes into a new group with id groupID.
//
// At least two distinct ids must resolve, and all of them must live in the same
// sibling list. Ids that are not in the tree are ignored. The members keep their
// relative z-order and the group takes the slot of the lowest member.
// On rejection the input is returned together with a *domain.ValidationError.
func Group(shapes []domain.Shape, ids []string, groupID string) ([]domain.Shape, error) {
	unique := dedupe(ids)
	if len(unique) < 2 {
		return shapes, domain.NewValidationError("ids", "grouping needs at least two shapes")
	}
	if groupID == "" {
		return shapes, domain.NewValidationError(domain.KeyID, "group id is empty")
	}
	if _, exists := Find(shapes, groupID); exists {
		return shapes, domain.NewValidationError(domain.KeyID, "group id "+groupID+" is already in use")
	}

	var parent Path
	indices := make([]int, 0, len(unique))
	for _, id := range unique {
		path, ok := Find(shapes, id)
		if !ok {
			continue
		}
		if len(indices) == 0 {
			parent = path.Parent()
		} else if !slices.Equal(parent, path.Parent()) {
			return shapes, domain.NewValidationError("ids", "shapes must share the same parent to be grouped")
		}
		indices = append(indices, path.Index())
	}
	if len(indices) < 2 {
		return shapes, domain.NewValidationError("ids", "grouping needs at least two existing shapes")
	}
	slices.Sort(indices)

	return ReplaceSiblings(shapes, parent, func(list []domain.Shape) []domain.Shape {
		members := make([]domain.Shape, 0, len(indices))
		for _, i := range indices {
			members = append(members, list[i])
		}
		group := domain.Shape{ID: groupID, Type: domain.ShapeGroup, Children: members}
		group.X, group.Y, group.Width, group.Height = Bounds(members)

		out := make([]domain.Shape, 0, len(list)-len(indices)+1)
		for i, s := range list {
			switch {
			case i == indices[0]:
				out = append(out, group)
			case slices.Contains(indices, i):
			default:
				out = append(out, s)
			}
		}
		return out
	}), nil
}

// Ungroup splices the children of the group into its parent list at the group's
// position and discards the group. Unknown ids leave the tree unchanged; a
// non-group target is rejected with a *domain.ValidationError.
func Ungroup(shapes []domain.Shape, id string) ([]domain.Shape, error) {
	path, ok := Find(shapes, id)
	if !ok {
		return shapes, nil
	}
	target, _ := Get(shapes, path)
	if !target.IsGroup() {
		return shapes, domain.NewValidationError(domain.KeyType, "only groups can be ungrouped, got "+string(target.Type))
	}
	idx := path.Index()
	return ReplaceSiblings(shapes, path.Parent(), func(list []domain.Shape) []domain.Shape {
		out := make([]domain.Shape, 0, len(list)-1+len(target.Children))
		out = append(out, list[:idx]...)
		out = append(out, target.Children...)
		return append(out, list[idx+1:]...)
	}), nil
}

// Bounds returns the bounding box (x, y, width, height) of the shapes in canvas coordinates.
func Bounds(shapes []domain.Shape) (x, y, w, h float64) {
	first := true
	var minX, minY, maxX, maxY float64
	Walk(shapes, func(_ Path, s domain.Shape) bool {
		if s.IsGroup() {
			return true
		}
		x0, y0, x1, y1 := s.X, s.Y, s.X+s.Width, s.Y+s.Height
		if s.Type == domain.ShapeLine {
			x0, x1 = min(s.X, s.X2), max(s.X, s.X2)
			y0, y1 = min(s.Y, s.Y2), max(s.Y, s.Y2)
		}
		if first {
			minX, minY, maxX, maxY = x0, y0, x1, y1
			first = false
			return true
		}
		minX, minY = min(minX, x0), min(minY, y0)
		maxX, maxY = max(maxX, x1), max(maxY, y1)
		return true
	})
	return minX, minY, maxX - minX, maxY - minY
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
