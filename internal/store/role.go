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

// RoleStore reads role assignments. It has no write methods: roles are
// granted only through database.GrantRole.
type RoleStore struct {
	db *sql.DB
}

// NewRoleStore returns a new RoleStore.
func NewRoleStore(db *sql.DB) *RoleStore {
	return &RoleStore{db: db}
}

// HasRole reports whether the user holds the given role.
func (s *RoleStore) HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)
	`, userID, role).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check role: %w", err)
	}
	return exists, nil
}

// ListForUser returns all roles held by a user.
func (s *RoleStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var r models.Role
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// AuditTrail returns the role audit rows for a user, newest first.
func (s *RoleStore) AuditTrail(ctx context.Context, userID uuid.UUID) ([]models.RoleAudit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, role, action, actor, reason, created_at
		FROM role_audit WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list role audit: %w", err)
	}
	defer rows.Close()

	var items []models.RoleAudit
	for rows.Next() {
		var a models.RoleAudit
		if err := rows.Scan(&a.ID, &a.UserID, &a.Role, &a.Action, &a.Actor, &a.Reason, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan role audit: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
