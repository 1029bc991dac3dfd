// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render writes JSON API responses. Every error response has the
// shape {"error": "...", "field": "..."} where field is optional.
package render

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// ContentTypeJSON is the Content-Type of every JSON response.
const ContentTypeJSON = "application/json; charset=utf-8"

// Problem is the body of an error response.
type Problem struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// JSON writes v as JSON with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("json encode failed", "error", err)
		w.Header().Set("Content-Type", ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal server error"}`))
		return
	}
	Raw(w, status, body)
}

// Raw writes pre-encoded JSON.
func Raw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	w.Write(body)
}

// Error writes an error response.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Problem{Error: msg})
}

// FieldError writes an error response naming the offending field.
func FieldError(w http.ResponseWriter, status int, field, msg string) {
	JSON(w, status, Problem{Error: msg, Field: field})
}

// Attachment writes body as a downloadable file.
func Attachment(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// NoContent writes a 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
