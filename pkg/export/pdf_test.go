package export

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func TestPDFHasHeaderAndMetadata(t *testing.T) {
	e := NewExporter()

	data, err := e.PDF(testImage(64, 48))
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("output does not start with a PDF header")
	}
	if !bytes.Contains(data, []byte("Canvas Export")) {
		t.Error("title metadata missing from document")
	}
	// Page box sized to the pixel dimensions, one point per pixel
	if !bytes.Contains(data, []byte("/MediaBox [0 0 64.00 48.00]")) {
		t.Error("page box does not match canvas dimensions")
	}
}

func TestPDFIsDeterministic(t *testing.T) {
	e := NewExporter()
	img := testImage(100, 80)

	first, err := e.PDF(img)
	if err != nil {
		t.Fatalf("first PDF: %v", err)
	}
	second, err := e.PDF(img)
	if err != nil {
		t.Fatalf("second PDF: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("two exports of the same pixels produced different bytes")
	}
}

func TestPDFDoesNotMutateInput(t *testing.T) {
	e := NewExporter()
	img := testImage(10, 10)
	before := append([]uint8(nil), img.Pix...)

	if _, err := e.PDF(img); err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !bytes.Equal(before, img.Pix) {
		t.Error("export mutated the input image")
	}
}

func TestPDFEmptyImage(t *testing.T) {
	e := NewExporter()
	if _, err := e.PDF(image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("expected error for empty image")
	}
}

func TestFilename(t *testing.T) {
	got := Filename("abc-123")
	if got != "canvas-abc-123.pdf" {
		t.Errorf("Filename = %q", got)
	}
}
