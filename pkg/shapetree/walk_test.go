package shapetree_test

import (
	"testing"

	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/shapetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	tree := nested()

	path, ok := shapetree.Find(tree, "d")
	require.True(t, ok)
	assert.Equal(t, shapetree.Path{1, 1, 1}, path)
	assert.Equal(t, 1, path.Index())
	assert.Equal(t, shapetree.Path{1, 1}, path.Parent())
	assert.Equal(t, 2, path.Depth())

	s, ok := shapetree.Get(tree, path)
	require.True(t, ok)
	assert.Equal(t, "d", s.ID)

	_, ok = shapetree.Find(tree, "zzz")
	assert.False(t, ok)
}

func TestFlatten(t *testing.T) {
	flat := shapetree.Flatten(nested())
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(flat))
	for _, s := range flat {
		assert.NotEqual(t, domain.ShapeGroup, s.Type)
	}
}

func TestFlatten_LengthMatchesLeafCount(t *testing.T) {
	trees := [][]domain.Shape{
		nil,
		{rect("a")},
		{group("g")},
		nested(),
		{group("g1", group("g2", group("g3", rect("x"), rect("y")))), rect("z")},
	}
	for _, tree := range trees {
		assert.Equal(t, shapetree.CountLeaves(tree), len(shapetree.Flatten(tree)))
	}
	assert.Equal(t, 5, shapetree.CountLeaves(nested()))
}

func TestWalk_PreOrder(t *testing.T) {
	assert.Equal(t, []string{"a", "g1", "b", "g2", "c", "d", "e"}, shapetree.IDs(nested()))

	var visited []string
	shapetree.Walk(nested(), func(_ shapetree.Path, s domain.Shape) bool {
		visited = append(visited, s.ID)
		return s.ID != "g1"
	})
	assert.Equal(t, []string{"a", "g1", "e"}, visited)
}

func TestClone_IsDeep(t *testing.T) {
	tree := nested()
	cp := shapetree.Clone(tree)
	cp[1].Children[1].Children[0].ID = "changed"
	assert.Equal(t, "c", tree[1].Children[1].Children[0].ID)
}

func TestValidate(t *testing.T) {
	require.NoError(t, shapetree.Validate(nested()))

	tests := []struct {
		name  string
		shape []domain.Shape
	}{
		{name: "Duplicate across depth", shape: []domain.Shape{rect("a"), group("g", rect("a"))}},
		{name: "Empty id", shape: []domain.Shape{rect("")}},
		{name: "Unknown type", shape: []domain.Shape{{ID: "x", Type: "hexagon"}}},
		{name: "Leaf with children", shape: []domain.Shape{{ID: "x", Type: domain.ShapeText, Children: []domain.Shape{rect("y")}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, shapetree.Validate(tt.shape), domain.ErrValidation)
		})
	}
}
