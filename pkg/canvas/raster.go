package canvas

import (
	"context"
	"image"
	"time"

	"github.com/canvasd/canvasd/pkg/errors"
	"github.com/canvasd/canvasd/pkg/fonts"
	"github.com/canvasd/canvasd/pkg/imagefetch"
	"github.com/canvasd/canvasd/pkg/observability"
	"github.com/canvasd/canvasd/pkg/surface"
)

// Rasterizer turns raw add-element requests into fully resolved elements
// and applies them to a session's drawing surface.
//
// Each Add* method follows the same shape: validate required fields, resolve
// defaults, prepare everything that can fail (color parse, font face, image
// fetch and decode), and only then take the session lock and draw. A failed
// add leaves the surface and the element log untouched.
type Rasterizer struct {
	fonts  *fonts.Resolver
	images *imagefetch.Loader
}

// NewRasterizer creates a Rasterizer drawing with the given font resolver
// and image loader.
func NewRasterizer(f *fonts.Resolver, l *imagefetch.Loader) *Rasterizer {
	return &Rasterizer{fonts: f, images: l}
}

// RectangleArgs is the raw field set for a rectangle add. Nil means the
// caller omitted the field.
type RectangleArgs struct {
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64
	Color  *string
	Filled *bool
}

// CircleArgs is the raw field set for a circle add.
type CircleArgs struct {
	X      *float64
	Y      *float64
	Radius *float64
	Color  *string
	Filled *bool
}

// TextArgs is the raw field set for a text add.
type TextArgs struct {
	Text       *string
	X          *float64
	Y          *float64
	FontSize   *float64
	FontFamily *string
	Color      *string
	Align      *string
}

// ImageURLArgs is the raw field set for an image-by-URL add.
type ImageURLArgs struct {
	URL    *string
	X      *int
	Y      *int
	Width  *int
	Height *int
}

// ImageUploadArgs is the raw field set for an image upload add. Position
// defaults to the canvas origin.
type ImageUploadArgs struct {
	Data   []byte
	X      *int
	Y      *int
	Width  *int
	Height *int
}

// AddRectangle resolves, draws, and records a rectangle element.
func (rz *Rasterizer) AddRectangle(ctx context.Context, s *Session, args RectangleArgs) (Element, error) {
	if args.X == nil {
		return nil, errors.MissingField("x")
	}
	if args.Y == nil {
		return nil, errors.MissingField("y")
	}
	if args.Width == nil {
		return nil, errors.MissingField("width")
	}
	if args.Height == nil {
		return nil, errors.MissingField("height")
	}

	el := Rectangle{
		X:       *args.X,
		Y:       *args.Y,
		Width:   *args.Width,
		Height:  *args.Height,
		Color:   stringOr(args.Color, DefaultColor),
		Filled:  boolOr(args.Filled, true),
		AddedAt: time.Now(),
	}

	var err error
	if el.col, err = parseColor(el.Color); err != nil {
		return nil, err
	}
	return rz.apply(ctx, s, el)
}

// AddCircle resolves, draws, and records a circle element.
func (rz *Rasterizer) AddCircle(ctx context.Context, s *Session, args CircleArgs) (Element, error) {
	if args.X == nil {
		return nil, errors.MissingField("x")
	}
	if args.Y == nil {
		return nil, errors.MissingField("y")
	}
	if args.Radius == nil {
		return nil, errors.MissingField("radius")
	}

	el := Circle{
		X:       *args.X,
		Y:       *args.Y,
		Radius:  *args.Radius,
		Color:   stringOr(args.Color, DefaultColor),
		Filled:  boolOr(args.Filled, true),
		AddedAt: time.Now(),
	}

	var err error
	if el.col, err = parseColor(el.Color); err != nil {
		return nil, err
	}
	return rz.apply(ctx, s, el)
}

// AddText resolves, draws, and records a text element.
func (rz *Rasterizer) AddText(ctx context.Context, s *Session, args TextArgs) (Element, error) {
	if args.Text == nil {
		return nil, errors.MissingField("text")
	}
	if args.X == nil {
		return nil, errors.MissingField("x")
	}
	if args.Y == nil {
		return nil, errors.MissingField("y")
	}

	el := Text{
		Text:       *args.Text,
		X:          *args.X,
		Y:          *args.Y,
		FontSize:   floatOr(args.FontSize, DefaultFontSize),
		FontFamily: stringOr(args.FontFamily, DefaultFontFamily),
		Color:      stringOr(args.Color, DefaultColor),
		Align:      DefaultAlign,
		AddedAt:    time.Now(),
	}

	if args.Align != nil {
		switch a := surface.Align(*args.Align); a {
		case surface.AlignLeft, surface.AlignCenter, surface.AlignRight:
			el.Align = a
		default:
			return nil, errors.New(errors.ErrCodeInvalidField,
				"invalid align %q, expected left, center, or right", *args.Align)
		}
	}

	var err error
	if el.col, err = parseColor(el.Color); err != nil {
		return nil, err
	}
	if el.face, err = rz.fonts.Face(el.FontFamily, el.FontSize); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternalRenderFailure, err,
			"failed to load font %q", el.FontFamily)
	}
	return rz.apply(ctx, s, el)
}

// AddImageURL fetches the image at the given URL, resolves the draw box,
// and composites it onto the surface. The fetch happens before the session
// lock is taken, so a slow URL never blocks other operations on the session.
func (rz *Rasterizer) AddImageURL(ctx context.Context, s *Session, args ImageURLArgs) (Element, error) {
	if args.URL == nil {
		return nil, errors.MissingField("url")
	}
	if args.X == nil {
		return nil, errors.MissingField("x")
	}
	if args.Y == nil {
		return nil, errors.MissingField("y")
	}

	img, err := rz.images.Fetch(ctx, *args.URL)
	if err != nil {
		return nil, err
	}

	el := resolveImage(img, *args.X, *args.Y, args.Width, args.Height)
	el.Source = "url"
	el.URL = *args.URL
	return rz.apply(ctx, s, el)
}

// AddImageUpload decodes the supplied bytes and composites them exactly as
// the URL case does. Position defaults to (0, 0).
func (rz *Rasterizer) AddImageUpload(ctx context.Context, s *Session, args ImageUploadArgs) (Element, error) {
	if len(args.Data) == 0 {
		return nil, errors.MissingField("image")
	}

	img, err := imagefetch.Decode(args.Data)
	if err != nil {
		return nil, err
	}

	el := resolveImage(img, intOr(args.X, 0), intOr(args.Y, 0), args.Width, args.Height)
	el.Source = "upload"
	return rz.apply(ctx, s, el)
}

// resolveImage builds an Image element, defaulting the draw box to the
// decoded image's natural pixel dimensions.
func resolveImage(img image.Image, x, y int, w, h *int) Image {
	b := img.Bounds()
	return Image{
		X:       x,
		Y:       y,
		Width:   intOr(w, b.Dx()),
		Height:  intOr(h, b.Dy()),
		AddedAt: time.Now(),
		img:     img,
	}
}

// apply draws a fully resolved element and appends it to the log. The
// session lock covers both steps so a concurrent add cannot interleave
// between draw and record.
func (rz *Rasterizer) apply(ctx context.Context, s *Session, el Element) (Element, error) {
	start := time.Now()
	kind := string(el.Kind())
	observability.Render().OnElementStart(ctx, s.ID(), kind)

	err := rz.draw(s, el)
	observability.Render().OnElementComplete(ctx, s.ID(), kind, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return el, nil
}

func (rz *Rasterizer) draw(s *Session, el Element) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A drawing-library panic must not corrupt the session: the element is
	// appended only after the primitive returned, so the log never records
	// a half-drawn element.
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeInternalRenderFailure, "draw primitive failed: %v", r)
		}
	}()

	switch e := el.(type) {
	case Rectangle:
		if e.Filled {
			s.surface.FillRect(e.X, e.Y, e.Width, e.Height, e.col)
		} else {
			s.surface.StrokeRect(e.X, e.Y, e.Width, e.Height, e.col)
		}
	case Circle:
		if e.Filled {
			s.surface.FillCircle(e.X, e.Y, e.Radius, e.col)
		} else {
			s.surface.StrokeCircle(e.X, e.Y, e.Radius, e.col)
		}
	case Text:
		s.surface.DrawText(e.Text, e.X, e.Y, e.face, e.col, e.Align)
	case Image:
		s.surface.DrawImage(e.img, e.X, e.Y, e.Width, e.Height)
	default:
		return errors.New(errors.ErrCodeInternalRenderFailure, "unhandled element kind %q", el.Kind())
	}

	s.elements = append(s.elements, el)
	return nil
}

func stringOr(p *string, def string) string {
	if p != nil {
		return *p
	}
	return def
}

func floatOr(p *float64, def float64) float64 {
	if p != nil {
		return *p
	}
	return def
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}
