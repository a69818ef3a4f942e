package canvas

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"time"

	"golang.org/x/image/font"

	"github.com/canvasd/canvasd/pkg/errors"
	"github.com/canvasd/canvasd/pkg/surface"
)

// Kind identifies one of the closed set of element variants.
type Kind string

// Element kinds.
const (
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindText      Kind = "text"
	KindImage     Kind = "image"
)

// Default values applied when a request omits optional fields.
const (
	DefaultColor      = "#000000"
	DefaultFontSize   = 16.0
	DefaultFontFamily = "Arial"
	DefaultAlign      = surface.AlignLeft
)

// Element is one immutable, fully resolved drawing operation recorded in a
// session's element log. The variant set is closed: Rectangle, Circle, Text,
// and Image. Elements enter the log only after their draw succeeded, with
// all defaults already applied.
type Element interface {
	// Kind reports the element variant.
	Kind() Kind

	sealed()
}

// Rectangle is an axis-aligned box, filled or outlined.
type Rectangle struct {
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Color   string    `json:"color"`
	Filled  bool      `json:"isFilled"`
	AddedAt time.Time `json:"addedAt"`

	col color.RGBA
}

func (Rectangle) Kind() Kind { return KindRectangle }
func (Rectangle) sealed()    {}

// MarshalJSON tags the element with its kind.
func (e Rectangle) MarshalJSON() ([]byte, error) {
	type alias Rectangle
	return json.Marshal(struct {
		Type Kind `json:"type"`
		alias
	}{Type: KindRectangle, alias: alias(e)})
}

// Circle is a full 360° arc around a center point, filled or outlined.
type Circle struct {
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Radius  float64   `json:"radius"`
	Color   string    `json:"color"`
	Filled  bool      `json:"isFilled"`
	AddedAt time.Time `json:"addedAt"`

	col color.RGBA
}

func (Circle) Kind() Kind { return KindCircle }
func (Circle) sealed()    {}

// MarshalJSON tags the element with its kind.
func (e Circle) MarshalJSON() ([]byte, error) {
	type alias Circle
	return json.Marshal(struct {
		Type Kind `json:"type"`
		alias
	}{Type: KindCircle, alias: alias(e)})
}

// Text is a single text run anchored at (X, Y) with the top of the line at
// the anchor.
type Text struct {
	Text       string        `json:"text"`
	X          float64       `json:"x"`
	Y          float64       `json:"y"`
	FontSize   float64       `json:"fontSize"`
	FontFamily string        `json:"fontFamily"`
	Color      string        `json:"color"`
	Align      surface.Align `json:"align"`
	AddedAt    time.Time     `json:"addedAt"`

	col  color.RGBA
	face font.Face
}

func (Text) Kind() Kind { return KindText }
func (Text) sealed()    {}

// MarshalJSON tags the element with its kind.
func (e Text) MarshalJSON() ([]byte, error) {
	type alias Text
	return json.Marshal(struct {
		Type Kind `json:"type"`
		alias
	}{Type: KindText, alias: alias(e)})
}

// Image is a decoded raster composited into the box (X, Y, Width, Height).
// Source records where the pixels came from: "url" or "upload". URL is
// empty for uploads.
type Image struct {
	Source  string    `json:"source"`
	URL     string    `json:"url,omitempty"`
	X       int       `json:"x"`
	Y       int       `json:"y"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	AddedAt time.Time `json:"addedAt"`

	img image.Image
}

func (Image) Kind() Kind { return KindImage }
func (Image) sealed()    {}

// MarshalJSON tags the element with its kind.
func (e Image) MarshalJSON() ([]byte, error) {
	type alias Image
	return json.Marshal(struct {
		Type Kind `json:"type"`
		alias
	}{Type: KindImage, alias: alias(e)})
}

// parseColor parses a CSS-style hex color (#rgb or #rrggbb).
func parseColor(s string) (color.RGBA, error) {
	fail := func() (color.RGBA, error) {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidField, "invalid color %q, expected #rgb or #rrggbb", s)
	}

	if len(s) == 0 || s[0] != '#' {
		return fail()
	}
	hex := s[1:]

	var r, g, b uint8
	switch len(hex) {
	case 3:
		if _, err := fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b); err != nil {
			return fail()
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
			return fail()
		}
	default:
		return fail()
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
