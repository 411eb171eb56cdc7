// Package respond writes the JSON envelope every API route answers with and
// decodes request bodies.
//
// Successes carry "success": true next to their payload. Failures carry
// "success": false, a message and the apperr kind, so clients can branch on
// the kind instead of the text.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
)

// Fields is the payload of a successful response.
type Fields map[string]any

var statusByKind = map[apperr.Kind]int{
	apperr.KindNotFound:          http.StatusNotFound,
	apperr.KindValidation:        http.StatusBadRequest,
	apperr.KindInsufficientStock: http.StatusConflict,
	apperr.KindInvalidStatus:     http.StatusBadRequest,
	apperr.KindOrderLocked:       http.StatusConflict,
	apperr.KindConflict:          http.StatusConflict,
	apperr.KindBusy:              http.StatusServiceUnavailable,
	apperr.KindUnauthorized:      http.StatusUnauthorized,
	apperr.KindInternal:          http.StatusInternalServerError,
}

// retryAfter is sent with busy responses, in seconds.
const retryAfter = "1"

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func OK(w http.ResponseWriter, status int, fields Fields) {
	body := make(Fields, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}

	body["success"] = true

	JSON(w, status, body)
}

type stockProblem struct {
	Barcode   string `json:"barcode"`
	Name      string `json:"name"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

type errorBody struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Kind    apperr.Kind   `json:"kind"`
	Field   string        `json:"field,omitempty"`
	Product *stockProblem `json:"product,omitempty"`
}

// Error maps err to its status code. Internal errors are logged with the
// request id and answered with a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)

	body := errorBody{Message: err.Error(), Kind: kind}

	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		body.Field = ve.Field
	}

	var se *apperr.InsufficientStockError
	if errors.As(err, &se) {
		body.Product = &stockProblem{
			Barcode:   se.Barcode,
			Name:      se.Name,
			Available: se.Available,
			Requested: se.Requested,
		}
	}

	switch kind {
	case apperr.KindInternal:
		slog.ErrorContext(r.Context(), "request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)

		body.Message = "internal error"
	case apperr.KindBusy:
		w.Header().Set("Retry-After", retryAfter)

		body.Message = "the store is busy, try again"
	}

	JSON(w, statusByKind[kind], body)
}

// IDParam reads a positive integer URL parameter.
func IDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid(name, "must be a positive integer")
	}

	return id, nil
}
