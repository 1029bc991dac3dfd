// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups components in the catalog sidebar.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual field populated by CategoryStore.List.
	ComponentCount int `json:"component_count"`
}

// Component is a documented UI component such as a button or an alert.
// CategoryID is nullable: uncategorized components are allowed.
type Component struct {
	ID          uuid.UUID  `json:"id"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Status      string     `json:"status"` // "stable", "beta", "deprecated"
	SortOrder   int        `json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ComponentVariant is one named presentation of a component (e.g. "outline").
type ComponentVariant struct {
	ID          uuid.UUID `json:"id"`
	ComponentID uuid.UUID `json:"component_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CodeExample string    `json:"code_example"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

// Documentation is a Markdown section attached to a component.
type Documentation struct {
	ID          uuid.UUID `json:"id"`
	ComponentID uuid.UUID `json:"component_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// ContentHTML is the rendered Markdown; not stored.
	ContentHTML string `json:"content_html,omitempty"`
}

// TokenCategory classifies a design token.
type TokenCategory string

const (
	TokenColor      TokenCategory = "color"
	TokenSpacing    TokenCategory = "spacing"
	TokenTypography TokenCategory = "typography"
	TokenShadow     TokenCategory = "shadow"
	TokenRadius     TokenCategory = "radius"
	TokenMotion     TokenCategory = "motion"
)

// TokenCategories lists every known token category in display order.
var TokenCategories = []TokenCategory{
	TokenColor, TokenSpacing, TokenTypography, TokenShadow, TokenRadius, TokenMotion,
}

// Valid reports whether c is a known token category.
func (c TokenCategory) Valid() bool {
	for _, k := range TokenCategories {
		if c == k {
			return true
		}
	}
	return false
}

// DesignToken is a named, reusable design value.
type DesignToken struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Category    TokenCategory `json:"category"`
	Value       string        `json:"value"`
	Description string        `json:"description"`
	SortOrder   int           `json:"sort_order"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ComponentDetail bundles a component with its variants and documentation.
type ComponentDetail struct {
	Component
	Category      *Category          `json:"category,omitempty"`
	Variants      []ComponentVariant `json:"variants"`
	Documentation []Documentation    `json:"documentation"`
}
