package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

const maxBodyBytes = 1 << 20

// errorBody is the wire shape of every failed request.
type errorBody struct {
	Detail string `json:"detail"`
}

// messageBody acknowledges a delete.
type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusFor maps the core error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrValidation), errors.Is(err, types.ErrNoOp):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrDuplicateIdentity):
		return http.StatusConflict
	case errors.Is(err, types.ErrStoreUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, errorBody{Detail: err.Error()})
}

// decode reads exactly one JSON document from the request body. Syntax and
// type errors, and anything after the document, are reported as validation
// errors on the body.
func decode(r *http.Request, dst any) error {
	malformed := &types.ValidationError{Field: "body", Reason: "must be a JSON object"}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &types.ValidationError{Field: typeErr.Field, Reason: fmt.Sprintf("must be a %s", typeErr.Type)}
		}
		return malformed
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return malformed
	}
	return nil
}

// required reports the first absent field in a request body.
func required(fields ...requiredField) error {
	for _, f := range fields {
		if !f.present {
			return &types.ValidationError{Field: f.name, Reason: "is required"}
		}
	}
	return nil
}

type requiredField struct {
	name    string
	present bool
}

func field(name string, present bool) requiredField {
	return requiredField{name: name, present: present}
}
