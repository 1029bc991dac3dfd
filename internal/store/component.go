// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"designhub/internal/models"
)

// ComponentStore reads components with their variants and documentation.
type ComponentStore struct {
	db *sql.DB
}

// NewComponentStore returns a new ComponentStore.
func NewComponentStore(db *sql.DB) *ComponentStore {
	return &ComponentStore{db: db}
}

const componentColumns = `id, category_id, name, slug, description, status, sort_order, created_at, updated_at`

func scanComponent(scanner interface{ Scan(...any) error }) (*models.Component, error) {
	var c models.Component
	err := scanner.Scan(
		&c.ID, &c.CategoryID, &c.Name, &c.Slug, &c.Description,
		&c.Status, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns components ordered by sort_order then name. When
// categoryID is non-nil only that category's components are returned.
func (s *ComponentStore) List(ctx context.Context, categoryID *uuid.UUID) ([]models.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components`
	var args []any
	if categoryID != nil {
		query += ` WHERE category_id = $1`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY sort_order, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()

	var items []models.Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a component by slug. Returns nil if not found.
func (s *ComponentStore) FindBySlug(ctx context.Context, slug string) (*models.Component, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+componentColumns+` FROM components WHERE slug = $1`, slug)
	c, err := scanComponent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find component by slug: %w", err)
	}
	return c, nil
}

// Variants returns the variants of a component in display order.
func (s *ComponentStore) Variants(ctx context.Context, componentID uuid.UUID) ([]models.ComponentVariant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, component_id, name, description, code_example, sort_order, created_at
		FROM component_variants
		WHERE component_id = $1
		ORDER BY sort_order, name
	`, componentID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	items := []models.ComponentVariant{}
	for rows.Next() {
		var v models.ComponentVariant
		if err := rows.Scan(&v.ID, &v.ComponentID, &v.Name, &v.Description, &v.CodeExample, &v.SortOrder, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

// Documentation returns the documentation sections of a component in display order.
func (s *ComponentStore) Documentation(ctx context.Context, componentID uuid.UUID) ([]models.Documentation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, component_id, title, content, sort_order, created_at, updated_at
		FROM documentation
		WHERE component_id = $1
		ORDER BY sort_order, title
	`, componentID)
	if err != nil {
		return nil, fmt.Errorf("list documentation: %w", err)
	}
	defer rows.Close()

	items := []models.Documentation{}
	for rows.Next() {
		var d models.Documentation
		if err := rows.Scan(&d.ID, &d.ComponentID, &d.Title, &d.Content, &d.SortOrder, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan documentation: %w", err)
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
