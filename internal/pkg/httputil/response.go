package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/ignite/outreach-engine/internal/pkg/logger"
)

// ErrorResponse is the error envelope every endpoint returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON writes data as a JSON response with the given status. An encoding
// failure is logged; the status line has already gone out by then.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("httputil: response encode failed", "error", err.Error())
	}
}

// OK writes a 200 response with the given data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 response with the given data.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// Error writes the error envelope with the given status. For client
// errors whose message is safe to show.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// BadRequest writes a 400 error.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// NotFound writes a 404 error.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// InternalError logs the real error and returns a generic message so
// collaborator failures never leak connection strings or backend detail.
func InternalError(w http.ResponseWriter, err error) {
	logger.Error("httputil: internal error", "error", err.Error())
	Error(w, http.StatusInternalServerError, "internal server error")
}

// Decode reads the JSON request body into dst, answering 400 and
// returning false when the payload does not parse.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		BadRequest(w, "invalid JSON: "+err.Error())
		return false
	}
	return true
}
