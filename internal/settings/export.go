// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"designhub/internal/models"
)

// SchemaVersion tags export documents so future formats can be told apart.
const SchemaVersion = "1.0"

// ExportDocument is the JSON file produced by Export and consumed by Import.
type ExportDocument struct {
	SchemaVersion string              `json:"schemaVersion"`
	ExportedAt    time.Time           `json:"exportedAt"`
	BrandName     string              `json:"brandName"`
	LogoURL       string              `json:"logoUrl"`
	ColorPalette  models.ColorPalette `json:"colorPalette"`
	Typography    models.Typography   `json:"typography"`
}

// Bundle returns the settings carried by the document.
func (d ExportDocument) Bundle() models.Bundle {
	return models.Bundle{
		BrandName:    d.BrandName,
		LogoURL:      d.LogoURL,
		ColorPalette: d.ColorPalette,
		Typography:   d.Typography,
	}
}

// EncodeExport renders b as an indented export document.
func EncodeExport(b models.Bundle, exportedAt time.Time) ([]byte, error) {
	doc := ExportDocument{
		SchemaVersion: SchemaVersion,
		ExportedAt:    exportedAt.UTC(),
		BrandName:     b.BrandName,
		LogoURL:       b.LogoURL,
		ColorPalette:  b.ColorPalette,
		Typography:    b.Typography,
	}
	if doc.ColorPalette == nil {
		doc.ColorPalette = models.ColorPalette{}
	}
	if doc.Typography == nil {
		doc.Typography = models.Typography{}
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return append(out, '\n'), nil
}

// DecodeImport parses and validates an export document. Every failure
// wraps ErrInvalidImport.
func DecodeImport(data []byte) (models.Bundle, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Bundle{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	if doc.SchemaVersion == "" {
		return models.Bundle{}, fmt.Errorf("%w: missing schemaVersion", ErrInvalidImport)
	}
	if doc.SchemaVersion != SchemaVersion {
		return models.Bundle{}, fmt.Errorf("%w: unsupported schemaVersion %q", ErrInvalidImport, doc.SchemaVersion)
	}
	if doc.ColorPalette == nil {
		return models.Bundle{}, fmt.Errorf("%w: missing colorPalette", ErrInvalidImport)
	}
	if doc.Typography == nil {
		return models.Bundle{}, fmt.Errorf("%w: missing typography", ErrInvalidImport)
	}

	b, err := ValidateBundle(doc.Bundle())
	if err != nil {
		return models.Bundle{}, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}
	return b, nil
}
