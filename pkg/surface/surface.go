// Package surface implements the drawing surface backing a canvas session:
// a fixed-size raster buffer with primitive draw operations.
//
// A Surface is created white and mutated only through its draw methods.
// It is not safe for concurrent use; callers serialize access (the session
// holds a lock for the duration of each draw).
package surface

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// Align selects horizontal text alignment relative to the anchor x.
type Align string

// Supported text alignments.
const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// strokeWidth is the pen width for outlined shapes, in pixels.
const strokeWidth = 2

// Surface is a mutable raster target of fixed pixel dimensions.
type Surface struct {
	width  int
	height int
	dc     *gg.Context
}

// New creates a Surface of the given pixel dimensions, filled white.
func New(width, height int) *Surface {
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	return &Surface{width: width, height: height, dc: dc}
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// FillRect paints a solid rectangle.
func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Fill()
}

// StrokeRect outlines a rectangle with a 2px pen.
func (s *Surface) StrokeRect(x, y, w, h float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(strokeWidth)
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Stroke()
}

// FillCircle paints a solid circle centered at (x, y).
func (s *Surface) FillCircle(x, y, r float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawCircle(x, y, r)
	s.dc.Fill()
}

// StrokeCircle outlines a full 360° arc centered at (x, y) with a 2px pen.
func (s *Surface) StrokeCircle(x, y, r float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(strokeWidth)
	s.dc.DrawCircle(x, y, r)
	s.dc.Stroke()
}

// DrawText renders a text run anchored at (x, y). The anchor is the top of
// the line: the baseline is offset below y by the face ascent, so text sits
// entirely below the anchor. Alignment shifts the run left of x for center
// and right alignment.
func (s *Surface) DrawText(text string, x, y float64, face font.Face, c color.Color, align Align) {
	s.dc.SetFontFace(face)
	s.dc.SetColor(c)

	w, _ := s.dc.MeasureString(text)
	switch align {
	case AlignCenter:
		x -= w / 2
	case AlignRight:
		x -= w
	}

	ascent := float64(face.Metrics().Ascent) / 64
	s.dc.DrawString(text, x, y+ascent)
}

// DrawImage composites img into the box (x, y, w, h), scaling with Lanczos
// resampling when the box differs from the image's natural size.
func (s *Surface) DrawImage(img image.Image, x, y, w, h int) {
	b := img.Bounds()
	if w != b.Dx() || h != b.Dy() {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}
	s.dc.DrawImage(img, x, y)
}

// Snapshot returns a deep copy of the current pixel state. Mutating the
// surface after Snapshot does not affect the returned image.
func (s *Surface) Snapshot() *image.RGBA {
	src := s.dc.Image()
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// EncodePNG returns the current pixel state as PNG bytes.
func (s *Surface) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.dc.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
