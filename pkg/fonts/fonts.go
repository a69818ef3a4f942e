// Package fonts resolves font family names to renderable font faces.
//
// Resolution tries the host system first via go-findfont, then falls back
// to fonts embedded in the binary (the Go font family), so text rendering
// works without any external dependencies. Parsed fonts are cached; faces
// are created per call because a font.Face is not safe for concurrent use.
package fonts

import (
	"os"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFamily is the family used when a request names no font.
const DefaultFamily = "Arial"

// Resolver maps font family names to font faces at a requested size.
// The zero value is not usable; create one with NewResolver.
type Resolver struct {
	mu    sync.Mutex
	fonts map[string]*truetype.Font
}

// NewResolver creates a Resolver with an empty font cache.
func NewResolver() *Resolver {
	return &Resolver{fonts: make(map[string]*truetype.Font)}
}

// Face returns a font face for the given family at the given point size.
//
// The lookup order is:
//  1. cached parse of a previous resolution for the same family
//  2. a system font matching the family name (via go-findfont)
//  3. an embedded Go font chosen by family keywords (bold, italic, mono)
//
// Face never fails for an unknown family; unmatched names resolve to the
// embedded regular face. The returned face must not be shared across
// goroutines.
func (r *Resolver) Face(family string, size float64) (font.Face, error) {
	f, err := r.font(family)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72}), nil
}

func (r *Resolver) font(family string) (*truetype.Font, error) {
	key := normalize(family)

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.fonts[key]; ok {
		return f, nil
	}

	f := r.systemFont(family)
	if f == nil {
		var err error
		f, err = truetype.Parse(embedded(key))
		if err != nil {
			return nil, err
		}
	}
	r.fonts[key] = f
	return f, nil
}

// systemFont tries to locate and parse a host font for the family.
// Any failure (not installed, unreadable, unparseable) returns nil so the
// caller falls back to an embedded font.
func (r *Resolver) systemFont(family string) *truetype.Font {
	if family == "" {
		return nil
	}
	path, err := findfont.Find(family + ".ttf")
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil
	}
	return f
}

// embedded picks an embedded Go font variant from family keywords.
func embedded(key string) []byte {
	switch {
	case strings.Contains(key, "mono") || strings.Contains(key, "courier"):
		return gomono.TTF
	case strings.Contains(key, "bold"):
		return gobold.TTF
	case strings.Contains(key, "italic") || strings.Contains(key, "oblique"):
		return goitalic.TTF
	default:
		return goregular.TTF
	}
}

func normalize(family string) string {
	return strings.ToLower(strings.TrimSpace(family))
}
