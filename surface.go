package ggcapture

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gg"
)

// Surface is the drawing target a Session drives. The default
// implementation wraps a gg.Context, but any 2D raster that can resize,
// clear, and hand back its pixels can be recorded.
//
// Surfaces are NOT thread-safe. A Session touches its surface only from the
// run goroutine while Running, and from the caller's goroutine otherwise.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Resize changes the surface dimensions. Existing content may be
	// discarded.
	Resize(width, height int) error

	// Clear fills the entire surface with the given color.
	// A nil color clears to fully transparent.
	Clear(c color.Color)

	// Context returns the gg drawing context handed to the draw callback.
	Context() *gg.Context

	// ReadPixels returns a copy of the current surface contents.
	// The caller owns the returned image; later drawing does not affect it.
	ReadPixels() *image.RGBA
}

// contextSurface adapts a gg.Context to the Surface interface.
type contextSurface struct {
	dc *gg.Context
}

// NewContextSurface creates a gg-backed surface with the given dimensions.
func NewContextSurface(width, height int) Surface {
	return &contextSurface{dc: gg.NewContext(width, height)}
}

func (s *contextSurface) Width() int  { return s.dc.Width() }
func (s *contextSurface) Height() int { return s.dc.Height() }

func (s *contextSurface) Resize(width, height int) error {
	return s.dc.Resize(width, height)
}

func (s *contextSurface) Clear(c color.Color) {
	if c == nil {
		s.dc.Clear()
		return
	}
	s.dc.ClearWithColor(gg.FromColor(c))
}

func (s *contextSurface) Context() *gg.Context { return s.dc }

func (s *contextSurface) ReadPixels() *image.RGBA {
	// Context.Image already copies the pixmap, so the result is safe to
	// hand off to the encode pipeline.
	img := s.dc.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}
