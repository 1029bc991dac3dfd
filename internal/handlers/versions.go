// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"designhub/internal/middleware"
	"designhub/internal/models"
	"designhub/internal/render"
	"designhub/internal/settings"
)

// Versions handles the named design-system version endpoints. With the
// local settings backend every endpoint answers 501.
type Versions struct {
	svc *settings.Service
}

// NewVersions creates the versions handler group.
func NewVersions(svc *settings.Service) *Versions {
	return &Versions{svc: svc}
}

type createVersionRequest struct {
	Name string `json:"name" validate:"required"`
}

type figmaCredentialsRequest struct {
	ClientID     string `json:"clientId" validate:"max=200"`
	ClientSecret string `json:"clientSecret" validate:"max=200"`
}

type loadVersionResponse struct {
	Version  *models.DesignSystemVersion `json:"version"`
	Settings models.Bundle               `json:"settings"`
}

// List returns all versions, newest first.
func (v *Versions) List(w http.ResponseWriter, r *http.Request) {
	list, err := v.svc.ListVersions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.DesignSystemVersion{}
	}
	render.JSON(w, http.StatusOK, list)
}

// Active returns the active version.
func (v *Versions) Active(w http.ResponseWriter, r *http.Request) {
	ver, err := v.svc.ActiveVersion(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, ver)
}

// Create saves the current settings as a new named version.
func (v *Versions) Create(w http.ResponseWriter, r *http.Request) {
	var req createVersionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var createdBy *uuid.UUID
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		id := sess.UserID
		createdBy = &id
	}

	ver, err := v.svc.SaveVersion(r.Context(), req.Name, createdBy)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, ver)
}

// Load activates a version and makes its settings current.
func (v *Versions) Load(w http.ResponseWriter, r *http.Request) {
	id, ok := versionID(w, r)
	if !ok {
		return
	}
	ver, err := v.svc.LoadVersion(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, loadVersionResponse{Version: ver, Settings: v.svc.Bundle()})
}

// SetFigmaCredentials stores design-tool credentials on a version.
func (v *Versions) SetFigmaCredentials(w http.ResponseWriter, r *http.Request) {
	id, ok := versionID(w, r)
	if !ok {
		return
	}
	var req figmaCredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := v.svc.SetFigmaCredentials(r.Context(), id, req.ClientID, req.ClientSecret); err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w)
}

func versionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}
