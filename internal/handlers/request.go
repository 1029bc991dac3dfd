// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"designhub/internal/catalog"
	"designhub/internal/figma"
	"designhub/internal/render"
	"designhub/internal/settings"
)

// maxJSONBody caps request bodies for JSON endpoints.
const maxJSONBody = 1 << 20

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance returns the shared validator. Field names in errors use
// the json tag.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		validateInst = v
	})
	return validateInst
}

// decodeJSON reads a JSON body into dst and validates its struct tags.
// On failure it writes the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			render.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			render.Error(w, http.StatusBadRequest, "request body is empty")
		default:
			render.Error(w, http.StatusBadRequest, "malformed JSON body")
		}
		return false
	}

	if err := validatorInstance().Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			render.FieldError(w, http.StatusBadRequest, fe.Field(), fieldMessage(fe))
			return false
		}
		render.Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// fieldMessage turns a validator failure into a short client message.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// writeError maps service errors to HTTP responses. Unknown errors are
// logged and reported as 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *settings.ValidationError
	switch {
	case errors.Is(err, settings.ErrInvalidImport):
		render.Error(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &verr):
		render.FieldError(w, http.StatusBadRequest, verr.Field, verr.Message)
	case errors.Is(err, settings.ErrLogoEmpty):
		render.FieldError(w, http.StatusBadRequest, "file", err.Error())
	case errors.Is(err, settings.ErrLogoTooLarge):
		render.FieldError(w, http.StatusRequestEntityTooLarge, "file", err.Error())
	case errors.Is(err, settings.ErrLogoType):
		render.FieldError(w, http.StatusUnsupportedMediaType, "file", err.Error())
	case errors.Is(err, settings.ErrVersionNotFound), errors.Is(err, catalog.ErrNotFound):
		render.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, catalog.ErrInvalidTokenCategory):
		render.FieldError(w, http.StatusBadRequest, "category", err.Error())
	case errors.Is(err, settings.ErrVersioningUnsupported):
		render.Error(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, figma.ErrExportFailed):
		render.Error(w, http.StatusBadGateway, err.Error())
	default:
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		render.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
