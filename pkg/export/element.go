package export

import (
	"fmt"
	"strings"

	"github.com/aretw0/graficador/pkg/domain"
	"github.com/h2non/filetype"
)

// SanitizeID keeps only the ASCII letters and digits of id.
// The mapping is deterministic and lossy: "a-1" and "a_1" both become "a1".
func SanitizeID(id string) string {
	var sb strings.Builder
	sb.Grow(len(id))
	for _, r := range id {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Rule is the closed set of rendering rules. Only the types in this package implement it.
type Rule interface {
	rule()
}

// BoxRule draws a filled, bordered box. Round makes the corners fully rounded.
type BoxRule struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Round       bool
}

// TextRule renders the literal text, unescaped.
type TextRule struct {
	Text string
}

// ImageRule references an image asset relative to the design component.
// Data holds the bytes to bundle when the source was an inline data URL.
type ImageRule struct {
	Asset string
	MIME  string
	Data  []byte
}

// PlainRule is an absolutely positioned box with no visual style.
type PlainRule struct{}

func (BoxRule) rule()   {}
func (TextRule) rule()  {}
func (ImageRule) rule() {}
func (PlainRule) rule() {}

// Element is one flattened leaf shape, ready for a target template.
// Distinct source ids may share a sanitized ID; targets that need unique
// names or paths use Key.
type Element struct {
	ID       string // sanitized
	SourceID string
	Key      string // unique per export: ID, or ID_n for the n-th element sharing ID
	Type     domain.ShapeType

	X, Y          float64
	Width, Height float64
	Rotation      float64

	Rule Rule
}

// Box returns the box rule, or nil.
func (e Element) Box() *BoxRule {
	if r, ok := e.Rule.(BoxRule); ok {
		return &r
	}
	return nil
}

// Label returns the text rule, or nil.
func (e Element) Label() *TextRule {
	if r, ok := e.Rule.(TextRule); ok {
		return &r
	}
	return nil
}

// Image returns the image rule, or nil.
func (e Element) Image() *ImageRule {
	if r, ok := e.Rule.(ImageRule); ok {
		return &r
	}
	return nil
}

// Elements maps flattened leaves to elements in render order.
func Elements(leaves []domain.Shape) ([]Element, error) {
	out := make([]Element, 0, len(leaves))
	seen := make(map[string]int, len(leaves))
	for _, s := range leaves {
		sid := SanitizeID(s.ID)
		seen[sid]++
		key := sid
		if n := seen[sid]; n > 1 {
			key = fmt.Sprintf("%s_%d", sid, n)
		}
		rule, err := ruleFor(s, key)
		if err != nil {
			return nil, err
		}
		out = append(out, Element{
			ID:       sid,
			SourceID: s.ID,
			Key:      key,
			Type:     s.Type,
			X:        s.X,
			Y:        s.Y,
			Width:    s.Width,
			Height:   s.Height,
			Rotation: s.Rotation,
			Rule:     rule,
		})
	}
	return out, nil
}

func ruleFor(s domain.Shape, key string) (Rule, error) {
	switch s.Type {
	case domain.ShapeRectangle:
		return box(s, false), nil
	case domain.ShapeCircle:
		return box(s, true), nil
	case domain.ShapeText:
		return TextRule{Text: s.Text}, nil
	case domain.ShapeImage:
		return imageRule(s, key), nil
	case domain.ShapeStar, domain.ShapeTriangle, domain.ShapeLine, domain.ShapeGroup:
		return PlainRule{}, nil
	default:
		return nil, fmt.Errorf("no rendering rule for shape %q of type %q", s.ID, s.Type)
	}
}

func box(s domain.Shape, round bool) BoxRule {
	return BoxRule{
		Fill:        s.FillOrDefault(),
		Stroke:      s.StrokeOrDefault(),
		StrokeWidth: s.StrokeWidth,
		Round:       round,
	}
}

func imageRule(s domain.Shape, key string) ImageRule {
	ext := "png"
	mime, data, ok := domain.DecodeDataURL(s.Src)
	if ok {
		if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
			ext = kind.Extension
			mime = kind.MIME.Value
		}
	}
	return ImageRule{
		Asset: "assets/images/" + key + "." + ext,
		MIME:  mime,
		Data:  data,
	}
}
