package export_test

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeID(t *testing.T) {
	assert.Equal(t, "r1", export.SanitizeID("r1"))
	assert.Equal(t, "rectangle1f2e", export.SanitizeID("rectangle-1f2e"))
	assert.Equal(t, "ab", export.SanitizeID("ä-a.b_ü"))
	assert.Equal(t, "", export.SanitizeID("--"))

	// Deterministic.
	assert.Equal(t, export.SanitizeID("x:y/z"), export.SanitizeID("x:y/z"))

	// Lossy: ids that differ only by punctuation collide.
	assert.Equal(t, export.SanitizeID("a-1"), export.SanitizeID("a_1"))
	assert.Equal(t, export.SanitizeID("shape.7"), export.SanitizeID("shape-7"))
}

func TestElements_RuleMapping(t *testing.T) {
	leaves := []domain.Shape{
		{ID: "r-1", Type: domain.ShapeRectangle, Fill: "#ff0000", StrokeWidth: 2},
		{ID: "c1", Type: domain.ShapeCircle},
		{ID: "t1", Type: domain.ShapeText, Text: "<b>Hola</b>"},
		{ID: "s1", Type: domain.ShapeStar},
		{ID: "tr1", Type: domain.ShapeTriangle},
		{ID: "l1", Type: domain.ShapeLine, X2: 10},
		{ID: "g1", Type: domain.ShapeGroup},
	}
	elements, err := export.Elements(leaves)
	require.NoError(t, err)
	require.Len(t, elements, len(leaves))

	assert.Equal(t, "r1", elements[0].ID)
	assert.Equal(t, "r-1", elements[0].SourceID)
	assert.Equal(t, export.BoxRule{Fill: "#ff0000", Stroke: "#000000", StrokeWidth: 2}, elements[0].Rule)
	assert.Equal(t, export.BoxRule{Fill: "#ffffff", Stroke: "#000000", Round: true}, elements[1].Rule)
	assert.Equal(t, export.TextRule{Text: "<b>Hola</b>"}, elements[2].Rule)
	for _, el := range elements[3:] {
		assert.Equal(t, export.PlainRule{}, el.Rule, el.SourceID)
	}

	assert.NotNil(t, elements[0].Box())
	assert.Nil(t, elements[0].Label())
	assert.Nil(t, elements[0].Image())
	assert.Equal(t, "<b>Hola</b>", elements[2].Label().Text)
}

func TestElements_KeysAreUnique(t *testing.T) {
	elements, err := export.Elements([]domain.Shape{
		{ID: "a-1", Type: domain.ShapeRectangle},
		{ID: "a_1", Type: domain.ShapeRectangle},
		{ID: "a.1", Type: domain.ShapeImage, Src: "https://example.com/a.png"},
		{ID: "b", Type: domain.ShapeCircle},
		{ID: "B", Type: domain.ShapeCircle},
	})
	require.NoError(t, err)

	var ids, keys []string
	for _, el := range elements {
		ids = append(ids, el.ID)
		keys = append(keys, el.Key)
	}
	assert.Equal(t, []string{"a1", "a1", "a1", "b", "B"}, ids, "ids stay lossy")
	assert.Equal(t, []string{"a1", "a1_2", "a1_3", "b", "B"}, keys)
	assert.Equal(t, "assets/images/a1_3.png", elements[2].Image().Asset)
}

func TestElements_UnknownTypeFails(t *testing.T) {
	_, err := export.Elements([]domain.Shape{{ID: "x", Type: "hexagon"}})
	assert.Error(t, err)
}

func TestElements_Image(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	elements, err := export.Elements([]domain.Shape{
		{ID: "image-1", Type: domain.ShapeImage, Src: domain.EncodeDataURL("image/png", buf.Bytes())},
		{ID: "image-2", Type: domain.ShapeImage, Src: "https://example.com/cat.jpg"},
	})
	require.NoError(t, err)

	img := elements[0].Image()
	require.NotNil(t, img)
	assert.Equal(t, "assets/images/image1.png", img.Asset)
	assert.Equal(t, "image/png", img.MIME)
	assert.Equal(t, buf.Bytes(), img.Data)

	remote := elements[1].Image()
	require.NotNil(t, remote)
	assert.Equal(t, "assets/images/image2.png", remote.Asset)
	assert.Nil(t, remote.Data)
}
