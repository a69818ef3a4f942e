package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/canvasd/canvasd/pkg/buildinfo"
	"github.com/canvasd/canvasd/pkg/canvas"
	"github.com/canvasd/canvasd/pkg/errors"
	"github.com/canvasd/canvasd/pkg/export"
	"github.com/canvasd/canvasd/pkg/observability"
)

type initRequest struct {
	Width  *int `json:"width"`
	Height *int `json:"height"`
}

type initResponse struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type addResponse struct {
	ElementCount int            `json:"elementCount"`
	Element      canvas.Element `json:"element"`
}

type infoResponse struct {
	ID           string           `json:"id"`
	Width        int              `json:"width"`
	Height       int              `json:"height"`
	ElementCount int              `json:"elementCount"`
	Elements     []canvas.Element `json:"elements"`
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	var req initRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Width == nil || req.Height == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidDimensions, "width and height are required"))
		return
	}

	sess, err := s.registry.Create(r.Context(), *req.Width, *req.Height)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, initResponse{
		ID:     sess.ID(),
		Width:  sess.Width(),
		Height: sess.Height(),
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	elements := sess.Elements()
	s.writeJSON(w, http.StatusOK, infoResponse{
		ID:           sess.ID(),
		Width:        sess.Width(),
		Height:       sess.Height(),
		ElementCount: len(elements),
		Elements:     elements,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAddRectangle(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req struct {
		X        *float64 `json:"x"`
		Y        *float64 `json:"y"`
		Width    *float64 `json:"width"`
		Height   *float64 `json:"height"`
		Color    *string  `json:"color"`
		IsFilled *bool    `json:"isFilled"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	el, err := s.raster.AddRectangle(r.Context(), sess, canvas.RectangleArgs{
		X: req.X, Y: req.Y, Width: req.Width, Height: req.Height,
		Color: req.Color, Filled: req.IsFilled,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, addResponse{ElementCount: sess.ElementCount(), Element: el})
}

func (s *Server) handleAddCircle(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req struct {
		X        *float64 `json:"x"`
		Y        *float64 `json:"y"`
		Radius   *float64 `json:"radius"`
		Color    *string  `json:"color"`
		IsFilled *bool    `json:"isFilled"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	el, err := s.raster.AddCircle(r.Context(), sess, canvas.CircleArgs{
		X: req.X, Y: req.Y, Radius: req.Radius,
		Color: req.Color, Filled: req.IsFilled,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, addResponse{ElementCount: sess.ElementCount(), Element: el})
}

func (s *Server) handleAddText(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req struct {
		Text       *string  `json:"text"`
		X          *float64 `json:"x"`
		Y          *float64 `json:"y"`
		FontSize   *float64 `json:"fontSize"`
		FontFamily *string  `json:"fontFamily"`
		Color      *string  `json:"color"`
		Align      *string  `json:"align"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	el, err := s.raster.AddText(r.Context(), sess, canvas.TextArgs{
		Text: req.Text, X: req.X, Y: req.Y,
		FontSize: req.FontSize, FontFamily: req.FontFamily,
		Color: req.Color, Align: req.Align,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, addResponse{ElementCount: sess.ElementCount(), Element: el})
}

func (s *Server) handleAddImage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req struct {
		URL    *string `json:"url"`
		X      *int    `json:"x"`
		Y      *int    `json:"y"`
		Width  *int    `json:"width"`
		Height *int    `json:"height"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	el, err := s.raster.AddImageURL(r.Context(), sess, canvas.ImageURLArgs{
		URL: req.URL, X: req.X, Y: req.Y, Width: req.Width, Height: req.Height,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, addResponse{ElementCount: sess.ElementCount(), Element: el})
}

// handleAddImageUpload accepts either a multipart form with a "file" field
// or a raw image body. Placement fields come from form values (multipart)
// or query parameters (raw body). The body size is capped.
func (s *Server) handleAddImageUpload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	var (
		data   []byte
		values func(string) string
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(s.maxUpload); err != nil {
			s.writeError(w, r, uploadSizeError(err))
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			s.writeError(w, r, errors.MissingField("file"))
			return
		}
		defer file.Close()
		if data, err = io.ReadAll(file); err != nil {
			s.writeError(w, r, uploadSizeError(err))
			return
		}
		values = r.FormValue
	} else {
		if data, err = io.ReadAll(r.Body); err != nil {
			s.writeError(w, r, uploadSizeError(err))
			return
		}
		values = r.URL.Query().Get
	}

	args := canvas.ImageUploadArgs{Data: data}
	for name, dst := range map[string]**int{
		"x": &args.X, "y": &args.Y, "width": &args.Width, "height": &args.Height,
	} {
		if raw := values(name); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				s.writeError(w, r, errors.New(errors.ErrCodeInvalidField, "invalid %s %q", name, raw))
				return
			}
			*dst = &n
		}
	}

	el, err := s.raster.AddImageUpload(r.Context(), sess, args)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, addResponse{ElementCount: sess.ElementCount(), Element: el})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := sess.EncodePNG()
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "failed to encode preview"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	start := time.Now()
	data, err := s.exporter.PDF(sess.Snapshot())
	observability.Render().OnExport(r.Context(), sess.ID(), "pdf", len(data), time.Since(start), err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(sess.ID())))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.registry.Len(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"built":   buildinfo.Date,
	})
}

// session resolves the request's session id against the registry.
func (s *Server) session(r *http.Request) (*canvas.Session, error) {
	return s.registry.Get(r.Context(), chi.URLParam(r, "sessionID"))
}

// decodeJSON parses a JSON request body, mapping malformed payloads to an
// INVALID_FIELD error.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidField, err, "malformed request body")
	}
	return nil
}

// uploadSizeError maps body-read failures to a client error; oversized
// uploads are the common cause given MaxBytesReader.
func uploadSizeError(err error) error {
	return errors.Wrap(errors.ErrCodeInvalidField, err, "failed to read upload body")
}
