// Package ggrenderer provides a capture surface implementation using the
// gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/framepick/pkg/ports"
)

// Renderer implements ports.Renderer using the gg library.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// NewSurface creates an empty surface. The drawing context is allocated by
// the first Resize call, since source dimensions are unknown until video
// metadata loads.
func (r *Renderer) NewSurface() ports.Surface {
	return &Surface{}
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)

// Surface implements ports.Surface backed by a gg drawing context.
type Surface struct {
	dc *gg.Context
}

// Size returns the current buffer dimensions, (0, 0) before the first
// Resize.
func (s *Surface) Size() (int, int) {
	if s.dc == nil {
		return 0, 0
	}
	return s.dc.Width(), s.dc.Height()
}

// Resize reallocates the drawing context at the given dimensions.
func (s *Surface) Resize(width, height int) {
	s.dc = gg.NewContext(width, height)
}

// Draw renders img over the whole buffer, scaling with CatmullRom when the
// source dimensions differ.
func (s *Surface) Draw(img image.Image) {
	if s.dc == nil {
		return
	}
	bounds := img.Bounds()
	if bounds.Dx() == s.dc.Width() && bounds.Dy() == s.dc.Height() {
		s.dc.DrawImage(img, 0, 0)
		return
	}
	dst := image.NewRGBA(image.Rect(0, 0, s.dc.Width(), s.dc.Height()))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	s.dc.DrawImage(dst, 0, 0)
}

// EncodeJPEG encodes the buffer contents as JPEG. It fails when no drawing
// context exists yet.
func (s *Surface) EncodeJPEG(quality int) ([]byte, error) {
	if s.dc == nil {
		return nil, fmt.Errorf("surface has no rendering context")
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, s.dc.Image(), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// Ensure Surface implements ports.Surface
var _ ports.Surface = (*Surface)(nil)
