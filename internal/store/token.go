// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"designhub/internal/models"
)

// TokenStore reads design tokens.
type TokenStore struct {
	db *sql.DB
}

// NewTokenStore returns a new TokenStore.
func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

// List returns tokens ordered by category then sort_order. An empty
// category returns every token.
func (s *TokenStore) List(ctx context.Context, category models.TokenCategory) ([]models.DesignToken, error) {
	query := `SELECT id, name, category, value, description, sort_order, created_at FROM design_tokens`
	var args []any
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY category, sort_order, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list design tokens: %w", err)
	}
	defer rows.Close()

	var items []models.DesignToken
	for rows.Next() {
		var t models.DesignToken
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Value, &t.Description, &t.SortOrder, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan design token: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
