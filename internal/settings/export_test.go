// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package settings

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"designhub/internal/models"
)

func TestEncodeExportShape(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	out, err := EncodeExport(models.DefaultBundle(), at)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &raw))
	for _, key := range []string{"schemaVersion", "exportedAt", "brandName", "logoUrl", "colorPalette", "typography"} {
		assert.Contains(t, raw, key)
	}
	assert.JSONEq(t, `"1.0"`, string(raw["schemaVersion"]))
	assert.JSONEq(t, `"2026-03-01T11:00:00Z"`, string(raw["exportedAt"]))
}

func TestEncodeExportDeterministic(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a, err := EncodeExport(models.DefaultBundle(), at)
	require.NoError(t, err)
	b, err := EncodeExport(models.DefaultBundle(), at)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeImportRoundTrip(t *testing.T) {
	want := models.DefaultBundle()
	want.BrandName = "Acme Kit"
	want.ColorPalette["brand-teal"] = "#0d9488"

	out, err := EncodeExport(want, time.Now())
	require.NoError(t, err)

	got, err := DecodeImport(out)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeImportRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{not json`},
		{"array", `[]`},
		{"missing schema", `{"brandName":"A","colorPalette":{},"typography":{}}`},
		{"unsupported schema", `{"schemaVersion":"2.0","brandName":"A","colorPalette":{},"typography":{}}`},
		{"missing palette", `{"schemaVersion":"1.0","brandName":"A","typography":{}}`},
		{"null palette", `{"schemaVersion":"1.0","brandName":"A","colorPalette":null,"typography":{}}`},
		{"missing typography", `{"schemaVersion":"1.0","brandName":"A","colorPalette":{}}`},
		{"palette wrong type", `{"schemaVersion":"1.0","brandName":"A","colorPalette":[],"typography":{}}`},
		{"bad brand name", `{"schemaVersion":"1.0","brandName":"<script>","colorPalette":{},"typography":{}}`},
		{"empty brand name", `{"schemaVersion":"1.0","brandName":"","colorPalette":{},"typography":{}}`},
		{"bad weight", `{"schemaVersion":"1.0","brandName":"A","colorPalette":{},"typography":{"primary":{"family":"Inter","weights":["x"]}}}`},
		{"bad logo", `{"schemaVersion":"1.0","brandName":"A","logoUrl":"javascript:x","colorPalette":{},"typography":{}}`},
		{"palette names collide after trim", `{"schemaVersion":"1.0","brandName":"A","colorPalette":{"a":"#000"," a":"#fff"},"typography":{}}`},
		{"roles collide after trim", `{"schemaVersion":"1.0","brandName":"A","colorPalette":{},"typography":{"primary":{"family":"Inter"},"primary ":{"family":"Roboto"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeImport([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidImport)
		})
	}
}

func TestDecodeImportValidationDetail(t *testing.T) {
	_, err := DecodeImport([]byte(`{"schemaVersion":"1.0","brandName":"<b>","colorPalette":{},"typography":{}}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidImport)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDecodeImportAcceptsBOM(t *testing.T) {
	data := "\xef\xbb\xbf" + `{"schemaVersion":"1.0","brandName":"A","colorPalette":{},"typography":{}}`
	got, err := DecodeImport([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "A", got.BrandName)
}
