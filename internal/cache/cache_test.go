// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{responseKeyPrefix + "*", "test:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	ctx := context.Background()
	client, err := ConnectValkey(ctx, envOr("VALKEY_HOST", "localhost"), envOr("VALKEY_PORT", "6379"), os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	name, err := client.ClientGetName(ctx).Result()
	if err != nil {
		t.Fatalf("CLIENT GETNAME: %v", err)
	}
	if name != clientName {
		t.Errorf("client name = %q, want %q", name, clientName)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := ConnectValkey(ctx, "127.0.0.1", "1", "")
	if err == nil {
		t.Fatal("expected an error for a closed port")
	}
	if !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Errorf("error should name the address, got %v", err)
	}
}

func TestResponseCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	rc := NewResponseCache(client, 1*time.Minute)

	ctx := context.Background()

	// Miss.
	data, ok := rc.Get(ctx, "categories")
	if ok {
		t.Error("expected cache miss")
	}
	if data != nil {
		t.Error("expected nil data on miss")
	}

	body := []byte(`[{"name":"Forms"}]`)
	rc.Set(ctx, "categories", body)

	data, ok = rc.Get(ctx, "categories")
	if !ok {
		t.Error("expected cache hit")
	}
	if string(data) != string(body) {
		t.Errorf("data mismatch: got %q, want %q", data, body)
	}
}

func TestResponseCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	rc := NewResponseCache(client, 1*time.Minute)

	ctx := context.Background()

	keys := []string{Key("components"), Key("components", "forms"), Key("tokens", "color")}
	for _, k := range keys {
		rc.Set(ctx, k, []byte("x"))
	}

	rc.InvalidateAll(ctx)

	for _, k := range keys {
		if _, ok := rc.Get(ctx, k); ok {
			t.Errorf("expected miss for %q after InvalidateAll", k)
		}
	}
}

func TestNewResponseCacheDefaultTTL(t *testing.T) {
	rc := NewResponseCache(nil, 0)
	if rc.ttl != DefaultResponseTTL {
		t.Errorf("expected DefaultResponseTTL (%v), got %v", DefaultResponseTTL, rc.ttl)
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"categories"}, "categories"},
		{[]string{"components", "forms"}, "components:forms"},
		{[]string{"component", "button", "detail"}, "component:button:detail"},
	}
	for _, tt := range tests {
		if got := Key(tt.parts...); got != tt.want {
			t.Errorf("Key(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

// exerciseKV runs the same contract against any KV implementation.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "test:bundle"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Get on empty store: got %v, want ErrMiss", err)
	}

	if err := kv.Set(ctx, "test:bundle", []byte(`{"brandName":"Acme"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := kv.Get(ctx, "test:bundle")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"brandName":"Acme"}` {
		t.Errorf("Get = %q", got)
	}

	if err := kv.Set(ctx, "test:bundle", []byte(`{}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = kv.Get(ctx, "test:bundle")
	if string(got) != `{}` {
		t.Errorf("after overwrite Get = %q", got)
	}

	if err := kv.Delete(ctx, "test:bundle"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := kv.Get(ctx, "test:bundle"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get after Delete: got %v, want ErrMiss", err)
	}
	if err := kv.Delete(ctx, "test:bundle"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemoryKV())
}

func TestMemoryKVCopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	val := []byte("abc")
	kv.Set(ctx, "k", val)
	val[0] = 'z'

	got, _ := kv.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller slice: %q", got)
	}
	got[1] = 'z'
	again, _ := kv.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("returned value aliased stored slice: %q", again)
	}
}

func TestValkeyKV(t *testing.T) {
	client := testValkeyClient(t)
	exerciseKV(t, NewValkeyKV(client, ""))
}

func TestValkeyKVPrefix(t *testing.T) {
	client := testValkeyClient(t)
	kv := NewValkeyKV(client, "test:ns:")
	ctx := context.Background()

	if err := kv.Set(ctx, "bundle", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	raw, err := client.Get(ctx, "test:ns:bundle").Result()
	if err != nil {
		t.Fatalf("raw get: %v", err)
	}
	if raw != "v" {
		t.Errorf("raw value = %q, want v", raw)
	}
}
