// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"designhub/internal/models"
	"designhub/internal/store"
)

// DefaultVersionName names the version created on the first save when no
// version is active yet.
const DefaultVersionName = "Default"

// VersionRepository is the subset of store.VersionStore used by RemoteBackend.
type VersionRepository interface {
	List(ctx context.Context) ([]models.DesignSystemVersion, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.DesignSystemVersion, error)
	FindActive(ctx context.Context) (*models.DesignSystemVersion, error)
	Create(ctx context.Context, v *models.DesignSystemVersion) (*models.DesignSystemVersion, error)
	CreateActive(ctx context.Context, v *models.DesignSystemVersion) (*models.DesignSystemVersion, error)
	UpdateBundle(ctx context.Context, id uuid.UUID, b models.Bundle) error
	UpdateFigmaCredentials(ctx context.Context, id uuid.UUID, clientID, clientSecret string) error
	Activate(ctx context.Context, id uuid.UUID) error
}

// RemoteBackend stores the bundle in the active design_system_versions row.
type RemoteBackend struct {
	versions VersionRepository
}

// NewRemoteBackend creates a backend over the given version repository.
func NewRemoteBackend(versions VersionRepository) *RemoteBackend {
	return &RemoteBackend{versions: versions}
}

// Name implements Backend.
func (r *RemoteBackend) Name() string { return "remote" }

// Load returns the active version's bundle.
func (r *RemoteBackend) Load(ctx context.Context) (models.Bundle, bool, error) {
	v, err := r.versions.FindActive(ctx)
	if err != nil {
		return models.Bundle{}, false, fmt.Errorf("load settings: %w", err)
	}
	if v == nil {
		return models.Bundle{}, false, nil
	}
	return v.Bundle(), true, nil
}

// Save writes b to the active version. When no version is active, b is
// stored as a new active "Default" version.
func (r *RemoteBackend) Save(ctx context.Context, b models.Bundle) error {
	active, err := r.versions.FindActive(ctx)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	if active == nil {
		v := &models.DesignSystemVersion{VersionName: DefaultVersionName}
		v.ApplyBundle(b)
		created, err := r.versions.CreateActive(ctx, v)
		if err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		slog.Info("default design system version created", "version_id", created.ID)
		return nil
	}

	if err := r.versions.UpdateBundle(ctx, active.ID, b); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// CreateVersion stores b as a new, inactive version.
func (r *RemoteBackend) CreateVersion(ctx context.Context, name string, b models.Bundle, createdBy *uuid.UUID) (*models.DesignSystemVersion, error) {
	v := &models.DesignSystemVersion{VersionName: name, CreatedBy: createdBy}
	v.ApplyBundle(b)
	created, err := r.versions.Create(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("create version: %w", err)
	}
	return created, nil
}

// ActivateVersion makes id the only active version and returns it.
func (r *RemoteBackend) ActivateVersion(ctx context.Context, id uuid.UUID) (*models.DesignSystemVersion, error) {
	if err := r.versions.Activate(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("activate version %s: %w", id, ErrVersionNotFound)
		}
		return nil, fmt.Errorf("activate version: %w", err)
	}
	v, err := r.versions.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("activate version: %w", err)
	}
	if v == nil {
		return nil, fmt.Errorf("activate version %s: %w", id, ErrVersionNotFound)
	}
	return v, nil
}

// ListVersions returns all versions, newest first.
func (r *RemoteBackend) ListVersions(ctx context.Context) ([]models.DesignSystemVersion, error) {
	return r.versions.List(ctx)
}

// ActiveVersion returns the active version or ErrVersionNotFound.
func (r *RemoteBackend) ActiveVersion(ctx context.Context) (*models.DesignSystemVersion, error) {
	v, err := r.versions.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("active version: %w", err)
	}
	if v == nil {
		return nil, ErrVersionNotFound
	}
	return v, nil
}

// SetFigmaCredentials stores the design-tool OAuth client on a version.
func (r *RemoteBackend) SetFigmaCredentials(ctx context.Context, id uuid.UUID, clientID, clientSecret string) error {
	if err := r.versions.UpdateFigmaCredentials(ctx, id, clientID, clientSecret); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("set figma credentials %s: %w", id, ErrVersionNotFound)
		}
		return fmt.Errorf("set figma credentials: %w", err)
	}
	return nil
}
