package server

import (
	"encoding/json"
	"net/http"

	"github.com/canvasd/canvasd/pkg/errors"
)

// errorBody is the JSON error envelope returned for every failed request.
type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

// httpStatus maps domain error codes to HTTP status codes.
func httpStatus(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidDimensions, errors.ErrCodeMissingField, errors.ErrCodeInvalidField:
		return http.StatusBadRequest
	case errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeImageLoadFailure:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeRegistryFull:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}

	status := httpStatus(code)
	if status >= 500 {
		s.logger.Warn("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	var body errorBody
	body.Error.Code = code
	body.Error.Message = errors.UserMessage(err)
	s.writeJSON(w, status, body)
}
