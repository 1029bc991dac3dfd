// Package cache provides Valkey (Redis-compatible) client initialization,
// a JSON response cache for the catalog API, and a small key/value
// abstraction used by the local settings backend.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// clientName identifies designhub connections in CLIENT LIST.
const clientName = "designhub"

// ConnectValkey creates a Valkey client and pings it, giving up after five
// seconds or when ctx ends.
func ConnectValkey(ctx context.Context, host, port, password string) (*redis.Client, error) {
	addr := net.JoinHostPort(host, port)
	client := redis.NewClient(&redis.Options{
		Addr:       addr,
		Password:   password,
		ClientName: clientName,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", addr, err)
	}

	slog.Info("valkey connected", "addr", addr)
	return client, nil
}
