package domain

import "fmt"

// ShapeType is the closed set of shape kinds.
type ShapeType string

const (
	ShapeRectangle ShapeType = "rectangle"
	ShapeCircle    ShapeType = "circle"
	ShapeStar      ShapeType = "star"
	ShapeTriangle  ShapeType = "triangle"
	ShapeLine      ShapeType = "line"
	ShapeText      ShapeType = "text"
	// ShapeImage is created from an uploaded file, never from the drawing tools.
	ShapeImage ShapeType = "image"
	// ShapeGroup is a container whose Children form a nested sibling list.
	ShapeGroup ShapeType = "group"
)

// ShapeTypes returns every shape kind in declaration order.
func ShapeTypes() []ShapeType {
	return []ShapeType{
		ShapeRectangle,
		ShapeCircle,
		ShapeStar,
		ShapeTriangle,
		ShapeLine,
		ShapeText,
		ShapeImage,
		ShapeGroup,
	}
}

// DrawableTypes returns the kinds offered by the drawing tools.
func DrawableTypes() []ShapeType {
	return []ShapeType{ShapeRectangle, ShapeCircle, ShapeStar, ShapeTriangle, ShapeLine, ShapeText}
}

// ParseShapeType validates a raw type name.
func ParseShapeType(s string) (ShapeType, error) {
	for _, t := range ShapeTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", NewValidationError(KeyType, fmt.Sprintf("unknown shape type %q", s))
}

// Marker decorates the ends of a line.
type Marker string

const (
	MarkerNone    Marker = ""
	MarkerArrow   Marker = "arrow"
	MarkerDiamond Marker = "diamond"
	MarkerCircle  Marker = "circle"
)

// Shape is a node of the design tree.
// Coordinates are absolute canvas pixels at every nesting depth; a group does not
// re-base the coordinates of its children.
type Shape struct {
	ID   string    `json:"id" yaml:"id" mapstructure:"id"`
	Type ShapeType `json:"type" yaml:"type" mapstructure:"type"`

	X        float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y        float64 `json:"y" yaml:"y" mapstructure:"y"`
	Width    float64 `json:"width,omitempty" yaml:"width,omitempty" mapstructure:"width"`
	Height   float64 `json:"height,omitempty" yaml:"height,omitempty" mapstructure:"height"`
	Rotation float64 `json:"rotation,omitempty" yaml:"rotation,omitempty" mapstructure:"rotation"` // degrees, around the center

	Fill        string  `json:"fill,omitempty" yaml:"fill,omitempty" mapstructure:"fill"`
	Stroke      string  `json:"stroke,omitempty" yaml:"stroke,omitempty" mapstructure:"stroke"`
	StrokeWidth float64 `json:"strokeWidth,omitempty" yaml:"strokeWidth,omitempty" mapstructure:"strokeWidth"`

	// Text shapes
	Text       string  `json:"text,omitempty" yaml:"text,omitempty" mapstructure:"text"`
	FontSize   float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty" mapstructure:"fontSize"`
	FontFamily string  `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty" mapstructure:"fontFamily"`

	// Line shapes
	X2          float64 `json:"x2,omitempty" yaml:"x2,omitempty" mapstructure:"x2"`
	Y2          float64 `json:"y2,omitempty" yaml:"y2,omitempty" mapstructure:"y2"`
	MarkerStart Marker  `json:"markerStart,omitempty" yaml:"markerStart,omitempty" mapstructure:"markerStart"`
	MarkerEnd   Marker  `json:"markerEnd,omitempty" yaml:"markerEnd,omitempty" mapstructure:"markerEnd"`

	// Src holds image bytes as a data URL.
	Src string `json:"src,omitempty" yaml:"src,omitempty" mapstructure:"src"`

	Children []Shape `json:"children,omitempty" yaml:"children,omitempty" mapstructure:"children"`
}

// IsGroup reports whether the shape is a container.
func (s Shape) IsGroup() bool {
	return s.Type == ShapeGroup
}

// FillOrDefault returns the fill color used when rendering or exporting.
func (s Shape) FillOrDefault() string {
	if s.Fill == "" {
		return DefaultFill
	}
	return s.Fill
}

// StrokeOrDefault returns the stroke color used when rendering or exporting.
func (s Shape) StrokeOrDefault() string {
	if s.Stroke == "" {
		return DefaultStroke
	}
	return s.Stroke
}
