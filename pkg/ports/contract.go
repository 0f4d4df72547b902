package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/graficador/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleDesign returns a design that exercises nesting, text and line fields.
func sampleDesign(id string) *domain.Design {
	d := domain.NewDesign(id, "Contract")
	d.Shapes = []domain.Shape{
		{ID: "r1", Type: domain.ShapeRectangle, X: 10, Y: 20, Width: 100, Height: 50, Fill: "#ff0000", StrokeWidth: 2},
		{ID: "g1", Type: domain.ShapeGroup, Width: 40, Height: 40, Children: []domain.Shape{
			{ID: "t1", Type: domain.ShapeText, Text: "<Hola>", FontSize: 20},
			{ID: "l1", Type: domain.ShapeLine, X2: 40, Y2: 40, MarkerEnd: domain.MarkerArrow},
		}},
	}
	d.SelectedID = "t1"
	d.UpdatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return d
}

// RunDesignStoreContract runs a suite of tests to verify that a DesignStore implementation
// adheres to the defined interface contract.
func RunDesignStoreContract(t *testing.T, store DesignStore) {
	ctx := context.Background()
	designID := "contract-test-design-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		design := sampleDesign(designID)

		err := store.Save(ctx, design)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, designID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, design.Name, loaded.Name)
		assert.Equal(t, design.Shapes, loaded.Shapes, "the tree survives a round trip")
		assert.Equal(t, design.SelectedID, loaded.SelectedID)
		assert.True(t, design.UpdatedAt.Equal(loaded.UpdatedAt))
	})

	t.Run("Isolation", func(t *testing.T) {
		design := sampleDesign(designID)
		require.NoError(t, store.Save(ctx, design))

		// Mutating either side must not leak into the store.
		design.Shapes[1].Children[0].Text = "changed"
		loaded, err := store.Load(ctx, designID)
		require.NoError(t, err)
		assert.Equal(t, "<Hola>", loaded.Shapes[1].Children[0].Text)

		loaded.Shapes[0].Fill = "#000000"
		again, err := store.Load(ctx, designID)
		require.NoError(t, err)
		assert.Equal(t, "#ff0000", again.Shapes[0].Fill)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+designID)
		assert.ErrorIs(t, err, domain.ErrDesignNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sampleDesign(designID)))

		err := store.Delete(ctx, designID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, designID)
		assert.ErrorIs(t, err, domain.ErrDesignNotFound, "Load after Delete should return ErrDesignNotFound")

		assert.NoError(t, store.Delete(ctx, designID), "Delete is idempotent")
	})

	t.Run("List", func(t *testing.T) {
		id1 := designID + "-1"
		id2 := designID + "-2"
		require.NoError(t, store.Save(ctx, sampleDesign(id1)))
		require.NoError(t, store.Save(ctx, sampleDesign(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		designs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, designs, id1)
		assert.Contains(t, designs, id2)
	})

	t.Run("Empty ID", func(t *testing.T) {
		assert.Error(t, store.Save(ctx, domain.NewDesign("", "")))
	})
}
