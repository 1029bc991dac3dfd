// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog serves the read-only component catalog: categories,
// components with their variants and documentation, and design tokens.
// Results are cached as JSON when a cache is configured.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"designhub/internal/cache"
	"designhub/internal/markdown"
	"designhub/internal/models"
)

var (
	// ErrNotFound is returned for unknown component or category slugs.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTokenCategory is returned for an unknown token category filter.
	ErrInvalidTokenCategory = errors.New("invalid token category")
)

// CategoryReader is implemented by store.CategoryStore.
type CategoryReader interface {
	List(ctx context.Context) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// ComponentReader is implemented by store.ComponentStore.
type ComponentReader interface {
	List(ctx context.Context, categoryID *uuid.UUID) ([]models.Component, error)
	FindBySlug(ctx context.Context, slug string) (*models.Component, error)
	Variants(ctx context.Context, componentID uuid.UUID) ([]models.ComponentVariant, error)
	Documentation(ctx context.Context, componentID uuid.UUID) ([]models.Documentation, error)
}

// TokenReader is implemented by store.TokenStore.
type TokenReader interface {
	List(ctx context.Context, category models.TokenCategory) ([]models.DesignToken, error)
}

// Cache stores serialized responses. cache.ResponseCache implements it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
	InvalidateAll(ctx context.Context)
}

// Service reads the catalog.
type Service struct {
	categories CategoryReader
	components ComponentReader
	tokens     TokenReader
	cache      Cache // nil disables caching
}

// NewService creates a catalog service. c may be nil.
func NewService(categories CategoryReader, components ComponentReader, tokens TokenReader, c Cache) *Service {
	return &Service{categories: categories, components: components, tokens: tokens, cache: c}
}

// Categories lists categories with their component counts.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	return cached(ctx, s, cache.Key("categories"), func() ([]models.Category, error) {
		return s.categories.List(ctx)
	})
}

// Components lists components, optionally restricted to one category slug.
func (s *Service) Components(ctx context.Context, categorySlug string) ([]models.Component, error) {
	return cached(ctx, s, cache.Key("components", categorySlug), func() ([]models.Component, error) {
		if categorySlug == "" {
			return s.components.List(ctx, nil)
		}
		cat, err := s.categories.FindBySlug(ctx, categorySlug)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, fmt.Errorf("category %q: %w", categorySlug, ErrNotFound)
		}
		return s.components.List(ctx, &cat.ID)
	})
}

// Component returns a component with its category, variants and rendered
// documentation.
func (s *Service) Component(ctx context.Context, slug string) (*models.ComponentDetail, error) {
	return cached(ctx, s, cache.Key("component", slug), func() (*models.ComponentDetail, error) {
		c, err := s.components.FindBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("component %q: %w", slug, ErrNotFound)
		}

		detail := &models.ComponentDetail{Component: *c}
		if c.CategoryID != nil {
			if detail.Category, err = s.categories.FindByID(ctx, *c.CategoryID); err != nil {
				return nil, err
			}
		}
		if detail.Variants, err = s.components.Variants(ctx, c.ID); err != nil {
			return nil, err
		}
		if detail.Documentation, err = s.components.Documentation(ctx, c.ID); err != nil {
			return nil, err
		}
		for i := range detail.Documentation {
			doc := &detail.Documentation[i]
			if doc.ContentHTML, err = markdown.ToHTML(doc.Content); err != nil {
				return nil, fmt.Errorf("render documentation %s: %w", doc.ID, err)
			}
		}
		return detail, nil
	})
}

// Tokens lists design tokens, optionally filtered by category.
func (s *Service) Tokens(ctx context.Context, category string) ([]models.DesignToken, error) {
	tc := models.TokenCategory(category)
	if category != "" && !tc.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTokenCategory, category)
	}
	return cached(ctx, s, cache.Key("tokens", category), func() ([]models.DesignToken, error) {
		return s.tokens.List(ctx, tc)
	})
}

// Invalidate drops every cached catalog response.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateAll(ctx)
	}
}

// cached returns the value stored under key, or computes it with load and
// stores its JSON encoding. Cache decode failures fall through to load.
func cached[T any](ctx context.Context, s *Service, key string, load func() (T, error)) (T, error) {
	if s.cache != nil {
		if body, ok := s.cache.Get(ctx, key); ok {
			var v T
			if err := json.Unmarshal(body, &v); err == nil {
				return v, nil
			}
			slog.Warn("discarding undecodable cached response", "key", key)
		}
	}

	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}

	if s.cache != nil {
		if body, err := json.Marshal(v); err == nil {
			s.cache.Set(ctx, key, body)
		}
	}
	return v, nil
}
