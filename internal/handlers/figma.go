// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"designhub/internal/figma"
	"designhub/internal/models"
	"designhub/internal/render"
	"designhub/internal/settings"
)

// Exporter is implemented by figma.Client.
type Exporter interface {
	Export(ctx context.Context, req figma.Request) (*figma.Result, error)
}

// ComponentLister lists catalog components. catalog.Service implements it.
type ComponentLister interface {
	Components(ctx context.Context, categorySlug string) ([]models.Component, error)
}

// Figma pushes the current design system to the design-tool export function.
type Figma struct {
	exporter   Exporter // nil when export is not configured
	settings   *settings.Service
	components ComponentLister
}

// NewFigma creates the export handler. A nil client disables the endpoint.
func NewFigma(client *figma.Client, svc *settings.Service, components ComponentLister) *Figma {
	f := &Figma{settings: svc, components: components}
	if client != nil {
		f.exporter = client
	}
	return f
}

type figmaExportRequest struct {
	Name string `json:"name" validate:"max=200"`
}

// Export sends palette, typography and component summaries to the export
// function. The optional body {"name": ...} names the Figma file; it
// defaults to the brand name.
func (f *Figma) Export(w http.ResponseWriter, r *http.Request) {
	if f.exporter == nil {
		render.Error(w, http.StatusServiceUnavailable, "figma export is not configured")
		return
	}

	var req figmaExportRequest
	if !decodeJSONAllowEmpty(w, r, &req) {
		return
	}

	b := f.settings.Bundle()
	if req.Name == "" {
		req.Name = b.BrandName
	}

	comps, err := f.components.Components(r.Context(), "")
	if err != nil {
		writeError(w, r, err)
		return
	}
	summaries := make([]figma.Component, 0, len(comps))
	for _, c := range comps {
		summaries = append(summaries, figma.Component{
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			Status:      c.Status,
		})
	}

	res, err := f.exporter.Export(r.Context(), figma.Request{
		Name:         req.Name,
		ColorPalette: b.ColorPalette,
		Typography:   b.Typography,
		Components:   summaries,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, res)
}

// decodeJSONAllowEmpty is decodeJSON for optional bodies: an empty body
// leaves dst untouched.
func decodeJSONAllowEmpty(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			render.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		render.Error(w, http.StatusBadRequest, "could not read request body")
		return false
	}
	if len(body) == 0 {
		return true
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return decodeJSON(w, r, dst)
}
