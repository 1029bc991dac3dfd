// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth answers authorization questions. It only reads role rows;
// granting roles is done by the audited database.GrantRole.
package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"designhub/internal/models"
)

// RoleLookup reports whether a user holds a role. store.RoleStore
// implements it.
type RoleLookup interface {
	HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error)
}

// Checker performs role checks.
type Checker struct {
	roles RoleLookup
}

// NewChecker creates a Checker over roles.
func NewChecker(roles RoleLookup) *Checker {
	return &Checker{roles: roles}
}

// IsAdmin reports whether userID has an admin role row. It has no side
// effects.
func (c *Checker) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	ok, err := c.roles.HasRole(ctx, userID, models.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return ok, nil
}
