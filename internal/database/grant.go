// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"designhub/internal/models"
)

// ErrUserNotFound is returned by GrantRole when no user has the given email.
var ErrUserNotFound = errors.New("user not found")

// GrantRole assigns role to the user identified by email and writes a
// role_audit row in the same transaction. Granting a role the user already
// holds changes nothing and returns false.
//
// This is the only code path that creates role rows; request handlers never
// grant roles.
func GrantRole(ctx context.Context, db *sql.DB, email string, role models.Role, actor, reason string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	actor = strings.TrimSpace(actor)
	if !role.Valid() {
		return false, fmt.Errorf("grant role: unknown role %q", role)
	}
	if actor == "" {
		return false, fmt.Errorf("grant role: actor is required")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("grant role begin tx: %w", err)
	}
	defer tx.Rollback()

	var userID uuid.UUID
	err = tx.QueryRowContext(ctx, `SELECT id FROM users WHERE lower(email) = $1`, email).Scan(&userID)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("grant role %s: %w", email, ErrUserNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("grant role lookup user: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING`, userID, role)
	if err != nil {
		return false, fmt.Errorf("grant role insert: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO role_audit (user_id, role, action, actor, reason)
		VALUES ($1, $2, $3, $4, $5)`,
		userID, role, models.AuditGrant, actor, reason,
	); err != nil {
		return false, fmt.Errorf("grant role audit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("grant role commit: %w", err)
	}

	slog.Info("role granted", "email", email, "role", role, "actor", actor)
	return true, nil
}
