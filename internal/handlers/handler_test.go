// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Most tests run against in-memory fakes; the integration tests in
// auth_flow_test.go are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"designhub/internal/cache"
	"designhub/internal/database"
	"designhub/internal/middleware"
	"designhub/internal/models"
	"designhub/internal/render"
	"designhub/internal/session"
	"designhub/internal/settings"
	"designhub/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "designhub")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "designhub")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	ctx := context.Background()
	db, err := database.Connect(ctx, dsn)
	if err != nil {
		t.Skipf("skipping: %v", err)
	}

	if _, err := database.Migrate(ctx, db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, session.KeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		TwoFADone:   twoFADone,
	}
}

// withChiURLParams adds chi URL parameters (key, value pairs) to a request.
func withChiURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// jsonRequest builds a request with a JSON-encoded body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeBody decodes a JSON response body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// problem decodes an error response.
func problem(t *testing.T, rec *httptest.ResponseRecorder) render.Problem {
	t.Helper()
	var p render.Problem
	decodeBody(t, rec, &p)
	return p
}

// newLocalSettings returns a settings service on the local backend with an
// in-memory KV.
func newLocalSettings(t *testing.T) *settings.Service {
	t.Helper()
	svc := settings.NewService(settings.NewState(models.DefaultBundle()),
		settings.NewLocalBackend(cache.NewMemoryKV()), nil)
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load settings: %v", err)
	}
	return svc
}

// newRemoteSettings returns a settings service on the remote backend with
// an in-memory version repository.
func newRemoteSettings(t *testing.T) (*settings.Service, *fakeVersions) {
	t.Helper()
	repo := &fakeVersions{}
	svc := settings.NewService(settings.NewState(models.DefaultBundle()),
		settings.NewRemoteBackend(repo), nil)
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load settings: %v", err)
	}
	return svc, repo
}

// fakeVersions is an in-memory settings.VersionRepository.
type fakeVersions struct {
	mu       sync.Mutex
	versions []*models.DesignSystemVersion
}

func (f *fakeVersions) find(id uuid.UUID) *models.DesignSystemVersion {
	for _, v := range f.versions {
		if v.ID == id {
			return v
		}
	}
	return nil
}

func (f *fakeVersions) List(context.Context) ([]models.DesignSystemVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.DesignSystemVersion{}
	for i := len(f.versions) - 1; i >= 0; i-- {
		out = append(out, *f.versions[i])
	}
	return out, nil
}

func (f *fakeVersions) FindByID(_ context.Context, id uuid.UUID) (*models.DesignSystemVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v := f.find(id); v != nil {
		c := *v
		return &c, nil
	}
	return nil, nil
}

func (f *fakeVersions) FindActive(context.Context) (*models.DesignSystemVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.versions {
		if v.IsActive {
			c := *v
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeVersions) Create(_ context.Context, v *models.DesignSystemVersion) (*models.DesignSystemVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *v
	c.ID = uuid.New()
	c.IsActive = false
	f.versions = append(f.versions, &c)
	out := c
	return &out, nil
}

func (f *fakeVersions) CreateActive(_ context.Context, v *models.DesignSystemVersion) (*models.DesignSystemVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.versions {
		existing.IsActive = false
	}
	c := *v
	c.ID = uuid.New()
	c.IsActive = true
	f.versions = append(f.versions, &c)
	out := c
	return &out, nil
}

func (f *fakeVersions) UpdateBundle(_ context.Context, id uuid.UUID, b models.Bundle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.find(id)
	if v == nil {
		return fmt.Errorf("update version %s: %w", id, store.ErrNotFound)
	}
	v.ApplyBundle(b)
	return nil
}

func (f *fakeVersions) UpdateFigmaCredentials(_ context.Context, id uuid.UUID, clientID, clientSecret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.find(id)
	if v == nil {
		return fmt.Errorf("update figma credentials %s: %w", id, store.ErrNotFound)
	}
	v.FigmaClientID, v.FigmaClientSecret = &clientID, &clientSecret
	return nil
}

func (f *fakeVersions) Activate(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.find(id) == nil {
		return fmt.Errorf("activate version %s: %w", id, store.ErrNotFound)
	}
	for _, v := range f.versions {
		v.IsActive = v.ID == id
	}
	return nil
}
