package editor

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/aretw0/graficador/pkg/domain"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// maxImageSide caps the initial on-canvas size of an uploaded image.
const maxImageSide = 400

// fallbackImageSide is used when the format is recognized but its size cannot be decoded.
const fallbackImageSide = 200

// AddImage places an uploaded image on top of the root list and selects it.
// The bytes are kept inline as a data URL; anything that is not an image is rejected.
func (e *Editor) AddImage(ctx context.Context, name string, data []byte) (domain.Shape, error) {
	s, err := e.addImage(name, data)
	if err != nil {
		e.emit(ctx, domain.OpAddImage, []string{name}, err, false)
		return domain.Shape{}, err
	}
	e.touch()
	e.emit(ctx, domain.OpAddImage, []string{s.ID}, nil, true)
	return s, nil
}

func (e *Editor) addImage(name string, data []byte) (domain.Shape, error) {
	if !filetype.IsImage(data) {
		return domain.Shape{}, domain.NewValidationError("file", name+" is not an image")
	}
	kind, err := filetype.Match(data)
	if err != nil {
		return domain.Shape{}, domain.NewValidationError("file", err.Error())
	}

	w, h := imageSize(data)
	s, err := e.addShape(domain.ShapeImage, map[string]any{
		"width":  w,
		"height": h,
		"src":    domain.EncodeDataURL(kind.MIME.Value, data),
	})
	if err != nil {
		return domain.Shape{}, err
	}
	e.logger.Debug("image added", "design", e.design.ID, "name", name, "mime", kind.MIME.Value, "id", s.ID)
	return s, nil
}

// imageSize returns the natural size scaled down to fit maxImageSide.
func imageSize(data []byte) (float64, float64) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return fallbackImageSide, fallbackImageSide
	}
	w, h := float64(cfg.Width), float64(cfg.Height)
	if side := max(w, h); side > maxImageSide {
		scale := maxImageSide / side
		w, h = w*scale, h*scale
	}
	return w, h
}
