// Package response provides HTTP response helpers for the geoaddress API.
// Successful responses carry the resource representation bare, the TMF way;
// failures all share one fixed error shape.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/openoda/geoaddress/pkg/errors"
)

// Error is the wire shape of every error response.
type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding errors are ignored as headers are already sent (best effort).
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a 200 response.
func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// Created writes a 201 response.
func Created(w http.ResponseWriter, v any) {
	JSON(w, http.StatusCreated, v)
}

// NoContent writes a 204 response with no body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Fail writes an error response with the fixed error shape.
func Fail(w http.ResponseWriter, status int, errText, message string) {
	JSON(w, status, Error{Error: errText, Message: message})
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message string) {
	Fail(w, http.StatusBadRequest, "Bad Request", message)
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message string) {
	Fail(w, http.StatusNotFound, "Not Found", message)
}

// MethodNotAllowed writes a 405 error response.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	Fail(w, http.StatusMethodNotAllowed, "Method Not Allowed",
		"Method "+method+" is not supported for this endpoint")
}

// Conflict writes a 409 error response.
func Conflict(w http.ResponseWriter, message string) {
	Fail(w, http.StatusConflict, "Conflict", message)
}

// RateLimited writes a 429 error response.
func RateLimited(w http.ResponseWriter, message string) {
	Fail(w, http.StatusTooManyRequests, "Too Many Requests", message)
}

// InternalError writes a 500 error response. The underlying error is for
// the caller to log; it is never exposed to the client.
func InternalError(w http.ResponseWriter, _ error) {
	Fail(w, http.StatusInternalServerError, "Internal Server Error",
		"An unexpected error occurred")
}

// ServiceUnavailable writes a 503 error response.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	Fail(w, http.StatusServiceUnavailable, "Service Unavailable", message)
}

// FromError maps typed service errors to wire responses.
func FromError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, pkgerrors.ErrAlreadyExists):
		Conflict(w, err.Error())
	case errors.Is(err, pkgerrors.ErrInvalidInput):
		BadRequest(w, err.Error())
	default:
		InternalError(w, err)
	}
}
