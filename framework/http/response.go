package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/http/validation"
)

// Response wraps http.ResponseWriter with Laravel-style helpers.
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Raw returns the underlying ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// ── JSON responses ────────────────────────────────────────────────────────────

// JSON sends a JSON response.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// Success sends 200 JSON: {"data": v}
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Created sends 201 JSON: {"data": v}
func (res *Response) Created(v any) {
	res.JSON(http.StatusCreated, envelope{"data": v})
}

// NoContent sends 204 with no body.
func (res *Response) NoContent() {
	res.w.WriteHeader(http.StatusNoContent)
}

// Error sends a JSON error response.
//
//	res.Error(http.StatusNotFound, "Resource not found")
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// NotFound sends 404.
func (res *Response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, first(message, "Not found."))
}

// ServerError sends 500.
func (res *Response) ServerError(message ...string) {
	res.Error(http.StatusInternalServerError, first(message, "Server Error."))
}

// ValidationError sends 422 with the Laravel error bag shape:
// {"message": "...", "errors": {"field": ["msg"]}}
func (res *Response) ValidationError(errs validation.Errors) {
	res.JSON(http.StatusUnprocessableEntity, envelope{
		"message": "The given data was invalid.",
		"errors":  errs,
	})
}

// ResolutionError reports a failed container resolution. Unbound keys are
// 501s; everything else is a broken graph or constructor and answers 500.
func (res *Response) ResolutionError(err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, container.ErrNotBound) {
		status = http.StatusNotImplemented
	}
	res.JSON(status, envelope{"message": http.StatusText(status), "error": err.Error()})
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
