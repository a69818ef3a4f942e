package canvas

import (
	"image"
	"sync"
	"time"

	"github.com/canvasd/canvasd/pkg/surface"
)

// Session is a server-held canvas: a drawing surface of fixed dimensions
// plus the ordered log of elements applied to it.
//
// The id and dimensions are immutable after creation. All access to the
// surface and the element log goes through the session's mutex, so draws on
// one session serialize while different sessions proceed independently.
type Session struct {
	id        string
	width     int
	height    int
	createdAt time.Time

	mu       sync.Mutex
	surface  *surface.Surface
	elements []Element
}

func newSession(id string, width, height int) *Session {
	return &Session{
		id:        id,
		width:     width,
		height:    height,
		createdAt: time.Now(),
		surface:   surface.New(width, height),
	}
}

// ID returns the session's opaque identifier.
func (s *Session) ID() string { return s.id }

// Width returns the canvas width in pixels.
func (s *Session) Width() int { return s.width }

// Height returns the canvas height in pixels.
func (s *Session) Height() int { return s.height }

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// ElementCount returns the number of elements in the log.
func (s *Session) ElementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.elements)
}

// Elements returns a copy of the element log in insertion order.
func (s *Session) Elements() []Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Element, len(s.elements))
	copy(out, s.elements)
	return out
}

// Snapshot returns a deep copy of the current surface pixels. The snapshot
// reflects every element drawn so far and is unaffected by later draws.
func (s *Session) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Snapshot()
}

// EncodePNG returns the current surface pixels as PNG bytes.
func (s *Session) EncodePNG() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.EncodePNG()
}
