package editor

import (
	"fmt"

	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/schema"
	"github.com/mitchellh/mapstructure"
)

// Keys accepted in props but never copied onto the shape: identity and
// structure belong to the editor.
var ignoredProps = map[string]bool{
	domain.KeyID:       true,
	domain.KeyType:     true,
	domain.KeyChildren: true,
}

var markerValues = []string{
	string(domain.MarkerNone),
	string(domain.MarkerArrow),
	string(domain.MarkerDiamond),
	string(domain.MarkerCircle),
}

// propsSchema lists every property a caller may set when adding a shape.
var propsSchema = schema.Schema{
	domain.KeyID:       schema.String(),
	domain.KeyType:     schema.String(),
	domain.KeyChildren: schema.Custom("any", func(any) error { return nil }),

	"x":        schema.Float(),
	"y":        schema.Float(),
	"width":    schema.Float(),
	"height":   schema.Float(),
	"rotation": schema.Float(),

	"fill":        schema.String(),
	"stroke":      schema.String(),
	"strokeWidth": schema.Float(),

	"text":       schema.String(),
	"fontSize":   schema.Float(),
	"fontFamily": schema.String(),

	"x2":          schema.Float(),
	"y2":          schema.Float(),
	"markerStart": schema.Enum(markerValues...),
	"markerEnd":   schema.Enum(markerValues...),

	"src": schema.String(),
}

// defaultShape returns the geometry a drawing tool starts from.
func defaultShape(t domain.ShapeType) domain.Shape {
	s := domain.Shape{Type: t, X: 100, Y: 100}
	switch t {
	case domain.ShapeLine:
		s.X2, s.Y2 = 200, 100
		s.StrokeWidth = 2
	case domain.ShapeText:
		s.Text = "Text"
		s.FontSize = 20
		s.Width, s.Height = 100, 30
	default:
		s.Width, s.Height = 100, 100
	}
	return s
}

// applyProps validates props and decodes them over s.
func applyProps(s *domain.Shape, props map[string]any) error {
	if len(props) == 0 {
		return nil
	}
	if err := schema.Validate(propsSchema, props); err != nil {
		return domain.NewValidationError("props", err.Error())
	}

	clean := make(map[string]any, len(props))
	for k, v := range props {
		if !ignoredProps[k] {
			clean[k] = v
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           s,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to build props decoder: %w", err)
	}
	if err := dec.Decode(clean); err != nil {
		return domain.NewValidationError("props", err.Error())
	}
	return checkGeometry(*s)
}

func checkGeometry(s domain.Shape) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"width", s.Width},
		{"height", s.Height},
		{"strokeWidth", s.StrokeWidth},
		{"fontSize", s.FontSize},
	} {
		if f.value < 0 {
			return domain.NewValidationError(f.name, fmt.Sprintf("must not be negative, got %v", f.value))
		}
	}
	return nil
}
