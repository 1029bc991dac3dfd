// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"designhub/internal/models"
)

// ErrNotFound is returned by write methods whose target row does not exist.
var ErrNotFound = errors.New("not found")

// VersionStore handles design system version database operations.
type VersionStore struct {
	db *sql.DB
}

// NewVersionStore creates a new VersionStore.
func NewVersionStore(db *sql.DB) *VersionStore {
	return &VersionStore{db: db}
}

// versionColumns lists the columns selected in version queries.
const versionColumns = `id, version_name, color_palette, typography, brand_name, logo_url,
	figma_client_id, figma_client_secret, is_active, created_by, created_at, updated_at`

// scanVersion scans a version row from the result set.
func scanVersion(scanner interface{ Scan(...any) error }) (*models.DesignSystemVersion, error) {
	var v models.DesignSystemVersion
	err := scanner.Scan(
		&v.ID, &v.VersionName, &v.ColorPalette, &v.Typography, &v.BrandName, &v.LogoURL,
		&v.FigmaClientID, &v.FigmaClientSecret, &v.IsActive, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns all versions ordered by creation date descending.
func (s *VersionStore) List(ctx context.Context) ([]models.DesignSystemVersion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+versionColumns+`
		FROM design_system_versions
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	items := []models.DesignSystemVersion{}
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		items = append(items, *v)
	}
	return items, rows.Err()
}

// FindByID retrieves a version by its UUID. Returns nil if not found.
func (s *VersionStore) FindByID(ctx context.Context, id uuid.UUID) (*models.DesignSystemVersion, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+versionColumns+` FROM design_system_versions WHERE id = $1`, id)
	v, err := scanVersion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find version by id: %w", err)
	}
	return v, nil
}

// FindActive returns the currently active version, or nil if none is active.
func (s *VersionStore) FindActive(ctx context.Context) (*models.DesignSystemVersion, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+versionColumns+` FROM design_system_versions WHERE is_active LIMIT 1`)
	v, err := scanVersion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active version: %w", err)
	}
	return v, nil
}

// Create inserts a new, inactive version and returns it with the generated ID.
func (s *VersionStore) Create(ctx context.Context, v *models.DesignSystemVersion) (*models.DesignSystemVersion, error) {
	created, err := insertVersion(ctx, s.db, v, false)
	if err != nil {
		return nil, fmt.Errorf("create version: %w", err)
	}
	return created, nil
}

// CreateActive inserts v as the active version and deactivates all others
// in one transaction.
func (s *VersionStore) CreateActive(ctx context.Context, v *models.DesignSystemVersion) (*models.DesignSystemVersion, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE design_system_versions SET is_active = FALSE, updated_at = NOW() WHERE is_active`); err != nil {
		return nil, fmt.Errorf("deactivate versions: %w", err)
	}
	created, err := insertVersion(ctx, tx, v, true)
	if err != nil {
		return nil, fmt.Errorf("create active version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

// rowQuerier is satisfied by *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertVersion(ctx context.Context, q rowQuerier, v *models.DesignSystemVersion, active bool) (*models.DesignSystemVersion, error) {
	row := q.QueryRowContext(ctx, `
		INSERT INTO design_system_versions
			(version_name, color_palette, typography, brand_name, logo_url,
			 figma_client_id, figma_client_secret, created_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+versionColumns,
		v.VersionName, v.ColorPalette, v.Typography, v.BrandName, v.LogoURL,
		v.FigmaClientID, v.FigmaClientSecret, v.CreatedBy, active,
	)
	return scanVersion(row)
}

// UpdateBundle overwrites the editable fields of a version.
func (s *VersionStore) UpdateBundle(ctx context.Context, id uuid.UUID, b models.Bundle) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE design_system_versions
		SET brand_name = $1, logo_url = $2, color_palette = $3, typography = $4, updated_at = NOW()
		WHERE id = $5
	`, b.BrandName, b.LogoURL, b.ColorPalette, b.Typography, id)
	if err != nil {
		return fmt.Errorf("update version: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("update version %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateFigmaCredentials stores the design-tool OAuth client for a version.
// Empty strings clear the credentials.
func (s *VersionStore) UpdateFigmaCredentials(ctx context.Context, id uuid.UUID, clientID, clientSecret string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE design_system_versions
		SET figma_client_id = NULLIF($1, ''), figma_client_secret = NULLIF($2, ''), updated_at = NOW()
		WHERE id = $3
	`, clientID, clientSecret, id)
	if err != nil {
		return fmt.Errorf("update figma credentials: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("update figma credentials %s: %w", id, ErrNotFound)
	}
	return nil
}

// Activate sets a version as active and deactivates all others in one
// transaction, so readers never observe zero or two active versions.
func (s *VersionStore) Activate(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE design_system_versions SET is_active = FALSE, updated_at = NOW() WHERE is_active AND id <> $1`, id); err != nil {
		return fmt.Errorf("deactivate versions: %w", err)
	}

	result, err := tx.ExecContext(ctx, `UPDATE design_system_versions SET is_active = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("activate version: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("activate version %s: %w", id, ErrNotFound)
	}

	return tx.Commit()
}
