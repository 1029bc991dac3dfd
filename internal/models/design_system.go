// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ColorPalette maps semantic color names (primary, muted, ...) to color values.
type ColorPalette map[string]string

// Clone returns an independent copy of the palette.
func (p ColorPalette) Clone() ColorPalette {
	if p == nil {
		return nil
	}
	out := make(ColorPalette, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Value implements driver.Valuer so the palette is stored as JSONB.
func (p ColorPalette) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB columns.
func (p *ColorPalette) Scan(src any) error {
	return scanJSON(src, p)
}

// FontConfig describes one typography role.
type FontConfig struct {
	Family        string   `json:"family"`
	Weights       []string `json:"weights"`
	GoogleFontURL string   `json:"googleFontUrl"`
}

// HasWeight reports whether w is among the configured weights.
func (f FontConfig) HasWeight(w string) bool {
	return slices.Contains(f.Weights, w)
}

// ToggleWeight adds w when absent and removes it when present. Weights
// behave as a set; the result is sorted.
func (f FontConfig) ToggleWeight(w string) FontConfig {
	out := FontConfig{Family: f.Family, GoogleFontURL: f.GoogleFontURL}
	if f.HasWeight(w) {
		for _, existing := range f.Weights {
			if existing != w {
				out.Weights = append(out.Weights, existing)
			}
		}
	} else {
		out.Weights = append(slices.Clone(f.Weights), w)
	}
	slices.Sort(out.Weights)
	if out.Weights == nil {
		out.Weights = []string{}
	}
	return out
}

// Typography roles.
const (
	FontPrimary   = "primary"
	FontSecondary = "secondary"
)

// Typography maps a role (primary, secondary) to its font configuration.
type Typography map[string]FontConfig

// Clone returns a deep copy.
func (t Typography) Clone() Typography {
	if t == nil {
		return nil
	}
	out := make(Typography, len(t))
	for k, v := range t {
		v.Weights = slices.Clone(v.Weights)
		out[k] = v
	}
	return out
}

// Value implements driver.Valuer so typography is stored as JSONB.
func (t Typography) Value() (driver.Value, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for JSONB columns.
func (t *Typography) Scan(src any) error {
	return scanJSON(src, t)
}

func scanJSON(src any, dst any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan json: unsupported type %T", src)
	}
	return json.Unmarshal(raw, dst)
}

// Bundle is the editable design-system identity: branding, palette and
// typography. It is what the settings service reads, writes and exports.
type Bundle struct {
	BrandName    string       `json:"brandName"`
	LogoURL      string       `json:"logoUrl"`
	ColorPalette ColorPalette `json:"colorPalette"`
	Typography   Typography   `json:"typography"`
}

// Clone returns a deep copy of the bundle.
func (b Bundle) Clone() Bundle {
	return Bundle{
		BrandName:    b.BrandName,
		LogoURL:      b.LogoURL,
		ColorPalette: b.ColorPalette.Clone(),
		Typography:   b.Typography.Clone(),
	}
}

// DefaultBundle returns the settings used before anything has been saved.
func DefaultBundle() Bundle {
	return Bundle{
		BrandName: "Design System",
		LogoURL:   "",
		ColorPalette: ColorPalette{
			"primary":    "#2563eb",
			"secondary":  "#64748b",
			"success":    "#16a34a",
			"warning":    "#d97706",
			"error":      "#dc2626",
			"background": "#ffffff",
			"foreground": "#0f172a",
			"muted":      "#f1f5f9",
			"accent":     "#7c3aed",
		},
		Typography: Typography{
			FontPrimary: {
				Family:        "Inter",
				Weights:       []string{"400", "500", "600", "700"},
				GoogleFontURL: "https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700&display=swap",
			},
			FontSecondary: {
				Family:        "Roboto Mono",
				Weights:       []string{"400", "500"},
				GoogleFontURL: "https://fonts.googleapis.com/css2?family=Roboto+Mono:wght@400;500&display=swap",
			},
		},
	}
}

// DesignSystemVersion is a named snapshot of a Bundle plus design-tool
// credentials. At most one version is active at a time.
type DesignSystemVersion struct {
	ID                uuid.UUID    `json:"id"`
	VersionName       string       `json:"version_name"`
	ColorPalette      ColorPalette `json:"color_palette"`
	Typography        Typography   `json:"typography"`
	BrandName         string       `json:"brand_name"`
	LogoURL           string       `json:"logo_url"`
	FigmaClientID     *string      `json:"figma_client_id,omitempty"`
	FigmaClientSecret *string      `json:"-"`
	IsActive          bool         `json:"is_active"`
	CreatedBy         *uuid.UUID   `json:"created_by,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// Bundle extracts the editable settings from the version.
func (v *DesignSystemVersion) Bundle() Bundle {
	return Bundle{
		BrandName:    v.BrandName,
		LogoURL:      v.LogoURL,
		ColorPalette: v.ColorPalette.Clone(),
		Typography:   v.Typography.Clone(),
	}
}

// ApplyBundle overwrites the version's editable fields with b.
func (v *DesignSystemVersion) ApplyBundle(b Bundle) {
	v.BrandName = b.BrandName
	v.LogoURL = b.LogoURL
	v.ColorPalette = b.ColorPalette.Clone()
	v.Typography = b.Typography.Clone()
}
