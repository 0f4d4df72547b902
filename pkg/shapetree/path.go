package shapetree

import (
	"slices"

	"github.com/aretw0/graficador/pkg/domain"
)

// Path is the index path from the root sibling list down to a shape.
// Path{2, 0} is the first child of the third root shape.
type Path []int

// Index returns the position of the shape inside its sibling list.
func (p Path) Index() int {
	return p[len(p)-1]
}

// Parent returns the path of the enclosing group. An empty Path is the root list.
func (p Path) Parent() Path {
	return p[:len(p)-1]
}

// Depth returns the nesting level (0 for root shapes).
func (p Path) Depth() int {
	return len(p) - 1
}

// Find searches the whole tree in pre-order for the first shape with the given id.
func Find(shapes []domain.Shape, id string) (Path, bool) {
	for i := range shapes {
		if shapes[i].ID == id {
			return Path{i}, true
		}
		if len(shapes[i].Children) > 0 {
			if sub, ok := Find(shapes[i].Children, id); ok {
				return append(Path{i}, sub...), true
			}
		}
	}
	return nil, false
}

// Get returns the shape at path.
func Get(shapes []domain.Shape, path Path) (domain.Shape, bool) {
	if len(path) == 0 {
		return domain.Shape{}, false
	}
	list := Siblings(shapes, path.Parent())
	if list == nil || path.Index() < 0 || path.Index() >= len(list) {
		return domain.Shape{}, false
	}
	return list[path.Index()], true
}

// Lookup is Find followed by Get.
func Lookup(shapes []domain.Shape, id string) (domain.Shape, bool) {
	path, ok := Find(shapes, id)
	if !ok {
		return domain.Shape{}, false
	}
	return Get(shapes, path)
}

// Siblings returns the sibling list addressed by parent (the root list for an empty path).
// It returns nil when parent does not address a shape.
func Siblings(shapes []domain.Shape, parent Path) []domain.Shape {
	list := shapes
	for _, i := range parent {
		if i < 0 || i >= len(list) {
			return nil
		}
		list = list[i].Children
	}
	return list
}

// ReplaceSiblings rebuilds the spine from the root to parent and swaps the sibling
// list found there for fn's result. Only the spine is copied; every other subtree
// is shared with the input, which is never written to.
// fn must not modify its argument in place.
func ReplaceSiblings(shapes []domain.Shape, parent Path, fn func([]domain.Shape) []domain.Shape) []domain.Shape {
	if len(parent) == 0 {
		return fn(shapes)
	}
	out := slices.Clone(shapes)
	node := out[parent[0]]
	node.Children = ReplaceSiblings(node.Children, parent[1:], fn)
	out[parent[0]] = node
	return out
}
