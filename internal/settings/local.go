// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"designhub/internal/cache"
	"designhub/internal/models"
)

// LocalBundleKey is the key holding the bundle in the key/value store.
const LocalBundleKey = "settings:bundle"

// LocalBackend keeps a single bundle as JSON in a key/value store. It has
// no version history.
type LocalBackend struct {
	kv cache.KV
}

// NewLocalBackend creates a backend over kv.
func NewLocalBackend(kv cache.KV) *LocalBackend {
	return &LocalBackend{kv: kv}
}

// Name implements Backend.
func (l *LocalBackend) Name() string { return "local" }

// Load reads the stored bundle.
func (l *LocalBackend) Load(ctx context.Context) (models.Bundle, bool, error) {
	raw, err := l.kv.Get(ctx, LocalBundleKey)
	if errors.Is(err, cache.ErrMiss) {
		return models.Bundle{}, false, nil
	}
	if err != nil {
		return models.Bundle{}, false, fmt.Errorf("load settings: %w", err)
	}

	var b models.Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return models.Bundle{}, false, fmt.Errorf("decode stored settings: %w", err)
	}
	return b, true, nil
}

// Save replaces the stored bundle.
func (l *LocalBackend) Save(ctx context.Context, b models.Bundle) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := l.kv.Set(ctx, LocalBundleKey, raw); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
