// internal/app/system/apierrors/apierrors.go
// Package apierrors writes JSON error responses in a single envelope:
// {"error": {"code": "...", "message": "..."}}.
package apierrors

import (
	"encoding/json"
	"net/http"
)

// Machine-readable error codes.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeRateLimited        = "RATE_LIMITED"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeInconsistent       = "INCONSISTENT"
	CodeInternalError      = "INTERNAL_ERROR"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Write writes an error response with the given HTTP status, code, and message.
func Write(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{Code: code, Message: message},
	})
}

// InvalidInput writes a 400 for malformed or missing input.
func InvalidInput(w http.ResponseWriter, message string) {
	Write(w, http.StatusBadRequest, CodeInvalidInput, message)
}

// NotFound writes a 404 for an absent repository, ref, file, or record.
func NotFound(w http.ResponseWriter, message string) {
	Write(w, http.StatusNotFound, CodeNotFound, message)
}

// AlreadyExists writes a 409 for a name collision on create or rename.
func AlreadyExists(w http.ResponseWriter, message string) {
	Write(w, http.StatusConflict, CodeAlreadyExists, message)
}

// Unauthorized writes a 401 when authentication is missing or invalid.
func Unauthorized(w http.ResponseWriter, message string) {
	Write(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

// StorageUnavailable writes a 503 for a transient storage failure.
func StorageUnavailable(w http.ResponseWriter, message string) {
	Write(w, http.StatusServiceUnavailable, CodeStorageUnavailable, message)
}

// Inconsistent writes a 500 with a distinct code when a mutation partially
// succeeded and the compensating rollback also failed, so an operator can
// intervene.
func Inconsistent(w http.ResponseWriter, message string) {
	Write(w, http.StatusInternalServerError, CodeInconsistent, message)
}

// Internal writes a generic 500.
func Internal(w http.ResponseWriter, message string) {
	Write(w, http.StatusInternalServerError, CodeInternalError, message)
}
