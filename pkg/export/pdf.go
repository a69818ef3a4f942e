// Package export composes a canvas snapshot into a downloadable document.
//
// The only format is a single-page PDF whose page box equals the canvas
// pixel dimensions (one pixel per point), with the raster placed full-bleed:
// no margin, no rescaling distortion. Output is deterministic for identical
// pixel input so repeated exports of an unchanged session compare equal.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/canvasd/canvasd/pkg/errors"
)

// Exporter builds PDF documents from raster snapshots. The metadata strings
// are descriptive only and have no effect on rendering.
type Exporter struct {
	Title   string
	Author  string
	Creator string
}

// NewExporter creates an Exporter with the canvasd default metadata.
func NewExporter() Exporter {
	return Exporter{
		Title:   "Canvas Export",
		Author:  "canvasd",
		Creator: "canvasd",
	}
}

// PDF wraps img in a one-page PDF sized to the image's pixel dimensions.
// Compression is enabled; the creation date is pinned so that exporting the
// same pixels twice yields identical bytes.
func (e Exporter) PDF(img image.Image) ([]byte, error) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return nil, errors.New(errors.ErrCodeInternal, "cannot export empty image")
	}

	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to encode snapshot")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetCompression(true)
	pdf.SetTitle(e.Title, false)
	pdf.SetAuthor(e.Author, false)
	pdf.SetCreator(e.Creator, false)
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("canvas", opts, &raster)
	pdf.ImageOptions("canvas", 0, 0, w, h, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to write PDF")
	}
	return out.Bytes(), nil
}

// Filename returns the attachment filename for a session's PDF export.
func Filename(sessionID string) string {
	return fmt.Sprintf("canvas-%s.pdf", sessionID)
}
