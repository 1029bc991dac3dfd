// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"designhub/internal/models"
	"designhub/internal/render"
	"designhub/internal/settings"
)

// maxMultipartOverhead is the room left for multipart headers and
// boundaries on top of the logo size limit.
const maxMultipartOverhead = 64 << 10

// exportFilename is the download name of a settings export.
const exportFilename = "design-system-settings.json"

// Settings handles the design-system settings endpoints.
type Settings struct {
	svc *settings.Service
}

// NewSettings creates the settings handler group.
func NewSettings(svc *settings.Service) *Settings {
	return &Settings{svc: svc}
}

type paletteRequest struct {
	ColorPalette models.ColorPalette `json:"colorPalette" validate:"required"`
}

type typographyRequest struct {
	Typography models.Typography `json:"typography" validate:"required"`
}

type brandingRequest struct {
	BrandName string `json:"brandName" validate:"required"`
	LogoURL   string `json:"logoUrl"`
}

type settingsResponse struct {
	models.Bundle
	Backend string `json:"backend"`
}

func (s *Settings) respond(w http.ResponseWriter, status int, b models.Bundle) {
	render.JSON(w, status, settingsResponse{Bundle: b, Backend: s.svc.Backend()})
}

// Get returns the current settings.
func (s *Settings) Get(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.svc.Bundle())
}

// UpdatePalette replaces the color palette.
func (s *Settings) UpdatePalette(w http.ResponseWriter, r *http.Request) {
	var req paletteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := s.svc.UpdateColorPalette(r.Context(), req.ColorPalette)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, b)
}

// UpdateTypography replaces the typography map.
func (s *Settings) UpdateTypography(w http.ResponseWriter, r *http.Request) {
	var req typographyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := s.svc.UpdateTypography(r.Context(), req.Typography)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, b)
}

// ToggleWeight flips one font weight of a typography role.
func (s *Settings) ToggleWeight(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.ToggleFontWeight(r.Context(), chi.URLParam(r, "role"), chi.URLParam(r, "weight"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, b)
}

// UpdateBranding sets the brand name and logo URL.
func (s *Settings) UpdateBranding(w http.ResponseWriter, r *http.Request) {
	var req brandingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := s.svc.UpdateBranding(r.Context(), settings.Branding{
		BrandName: req.BrandName,
		LogoURL:   req.LogoURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, b)
}

// Reset restores the default settings.
func (s *Settings) Reset(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.Reset(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, b)
}

// UploadLogo accepts a multipart "file" field and sets it as the logo.
func (s *Settings) UploadLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, settings.MaxLogoSize+maxMultipartOverhead)
	if err := r.ParseMultipartForm(settings.MaxLogoSize + maxMultipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			render.FieldError(w, http.StatusRequestEntityTooLarge, "file", settings.ErrLogoTooLarge.Error())
			return
		}
		render.Error(w, http.StatusBadRequest, "expected a multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		render.FieldError(w, http.StatusBadRequest, "file", "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, settings.MaxLogoSize+1))
	if err != nil {
		writeError(w, r, fmt.Errorf("read logo: %w", err))
		return
	}

	b, err := s.svc.UploadLogo(r.Context(), settings.Logo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, b)
}

// Export downloads the current settings as a JSON document.
func (s *Settings) Export(w http.ResponseWriter, r *http.Request) {
	body, err := s.svc.Export()
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.Attachment(w, exportFilename, render.ContentTypeJSON, body)
}

// Import replaces the settings with an uploaded export document. The body
// is the raw document.
func (s *Settings) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			render.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		render.Error(w, http.StatusBadRequest, "could not read request body")
		return
	}

	b, err := s.svc.Import(r.Context(), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, b)
}
