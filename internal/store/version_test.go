// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"designhub/internal/models"
)

func TestVersionStoreLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewVersionStore(db)
	ctx := context.Background()

	names := []string{"store-test-v1", "store-test-v2"}
	t.Cleanup(func() { cleanVersions(t, db, names...) })

	b := models.DefaultBundle()
	b.BrandName = "Store Test"

	v := &models.DesignSystemVersion{VersionName: names[0]}
	v.ApplyBundle(b)
	v1, err := s.Create(ctx, v)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v1.IsActive {
		t.Error("new versions must be inactive")
	}
	if !reflect.DeepEqual(v1.Bundle(), b) {
		t.Errorf("bundle round trip: got %+v, want %+v", v1.Bundle(), b)
	}

	v = &models.DesignSystemVersion{VersionName: names[1]}
	v.ApplyBundle(models.DefaultBundle())
	v2, err := s.Create(ctx, v)
	if err != nil {
		t.Fatalf("Create v2: %v", err)
	}

	if err := s.Activate(ctx, v1.ID); err != nil {
		t.Fatalf("Activate v1: %v", err)
	}
	if err := s.Activate(ctx, v2.ID); err != nil {
		t.Fatalf("Activate v2: %v", err)
	}

	active, err := s.FindActive(ctx)
	if err != nil {
		t.Fatalf("FindActive: %v", err)
	}
	if active == nil || active.ID != v2.ID {
		t.Fatalf("active = %+v, want %s", active, v2.ID)
	}

	var activeCount int
	db.QueryRow(`SELECT COUNT(*) FROM design_system_versions WHERE is_active`).Scan(&activeCount)
	if activeCount != 1 {
		t.Errorf("active versions = %d, want 1", activeCount)
	}

	b.ColorPalette = models.ColorPalette{"primary": "#000000"}
	if err := s.UpdateBundle(ctx, v1.ID, b); err != nil {
		t.Fatalf("UpdateBundle: %v", err)
	}
	got, _ := s.FindByID(ctx, v1.ID)
	if !reflect.DeepEqual(got.ColorPalette, b.ColorPalette) {
		t.Errorf("palette = %v, want %v", got.ColorPalette, b.ColorPalette)
	}

	if err := s.UpdateFigmaCredentials(ctx, v1.ID, "client", "secret"); err != nil {
		t.Fatalf("UpdateFigmaCredentials: %v", err)
	}
	got, _ = s.FindByID(ctx, v1.ID)
	if got.FigmaClientID == nil || *got.FigmaClientID != "client" {
		t.Errorf("figma client id = %v", got.FigmaClientID)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) < 2 {
		t.Errorf("List returned %d versions, want at least 2", len(list))
	}
}

func TestVersionStoreCreateActive(t *testing.T) {
	db := testDB(t)
	s := NewVersionStore(db)
	ctx := context.Background()

	names := []string{"store-test-prev", "store-test-created-active"}
	t.Cleanup(func() { cleanVersions(t, db, names...) })

	v := &models.DesignSystemVersion{VersionName: names[0]}
	v.ApplyBundle(models.DefaultBundle())
	prev, err := s.Create(ctx, v)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Activate(ctx, prev.ID); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	v = &models.DesignSystemVersion{VersionName: names[1]}
	v.ApplyBundle(models.DefaultBundle())
	created, err := s.CreateActive(ctx, v)
	if err != nil {
		t.Fatalf("CreateActive: %v", err)
	}
	if !created.IsActive {
		t.Error("CreateActive returned an inactive version")
	}

	active, err := s.FindActive(ctx)
	if err != nil {
		t.Fatalf("FindActive: %v", err)
	}
	if active == nil || active.ID != created.ID {
		t.Fatalf("active = %+v, want %s", active, created.ID)
	}

	var activeCount int
	db.QueryRow(`SELECT COUNT(*) FROM design_system_versions WHERE is_active`).Scan(&activeCount)
	if activeCount != 1 {
		t.Errorf("active versions = %d, want 1", activeCount)
	}
}

func TestVersionStoreNotFound(t *testing.T) {
	db := testDB(t)
	s := NewVersionStore(db)
	ctx := context.Background()

	missing := uuid.New()
	if err := s.Activate(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Activate: expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateBundle(ctx, missing, models.DefaultBundle()); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateBundle: expected ErrNotFound, got %v", err)
	}
	v, err := s.FindByID(ctx, missing)
	if err != nil || v != nil {
		t.Errorf("FindByID: got %v, %v; want nil, nil", v, err)
	}
}
