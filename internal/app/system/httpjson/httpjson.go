// internal/app/system/httpjson/httpjson.go
// Package httpjson writes JSON response bodies.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// Write encodes v as the response body with the given status code.
func Write(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with a 200 status.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Created writes v with a 201 status.
func Created(w http.ResponseWriter, v any) {
	Write(w, http.StatusCreated, v)
}

// NoContent writes an empty 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
