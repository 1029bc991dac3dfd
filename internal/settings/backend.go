// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package settings

import (
	"context"

	"github.com/google/uuid"

	"designhub/internal/models"
)

// Backend persists the settings bundle.
type Backend interface {
	// Name identifies the backend in logs ("remote", "local").
	Name() string

	// Load returns the stored bundle. ok is false when nothing has been
	// stored yet; the caller then uses defaults.
	Load(ctx context.Context) (b models.Bundle, ok bool, err error)

	// Save stores b, replacing whatever was stored before.
	Save(ctx context.Context, b models.Bundle) error
}

// Versioner is implemented by backends that keep named snapshots.
type Versioner interface {
	CreateVersion(ctx context.Context, name string, b models.Bundle, createdBy *uuid.UUID) (*models.DesignSystemVersion, error)
	ActivateVersion(ctx context.Context, id uuid.UUID) (*models.DesignSystemVersion, error)
	ListVersions(ctx context.Context) ([]models.DesignSystemVersion, error)
	ActiveVersion(ctx context.Context) (*models.DesignSystemVersion, error)
	SetFigmaCredentials(ctx context.Context, id uuid.UUID, clientID, clientSecret string) error
}
