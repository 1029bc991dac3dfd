// Package session provides Valkey-backed HTTP session management.
// A session carries identity only; roles are looked up on every privileged
// request. Sessions expire after IdleTTL without use and never outlive
// MaxLifetime.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "dh_session"

	// IdleTTL is how long an unused session survives. Each Get extends it.
	IdleTTL = 2 * time.Hour

	// MaxLifetime caps a session regardless of activity.
	MaxLifetime = 24 * time.Hour

	// KeyPrefix namespaces session keys in Valkey.
	KeyPrefix = "designhub:session:"

	// idLength is the byte length of the random session ID (64 hex chars).
	idLength = 32
)

// ErrNoSession is returned by Rotate when the request has no session cookie.
var ErrNoSession = errors.New("no session")

// Data is the session payload: the user's identity and whether the second
// factor has been verified.
type Data struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	TwoFADone   bool      `json:"two_fa_done"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store manages session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	secure bool
	now    func() time.Time
}

// NewStore creates a session store backed by the given Valkey client.
// secure sets the cookie's Secure flag and should be true behind TLS.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{client: client, secure: secure, now: time.Now}
}

// Create starts a new session for data and sets the cookie. It returns the
// session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	data.CreatedAt = s.now()
	return s.put(ctx, w, data)
}

// Get loads the session named by the request cookie and extends its idle
// timeout. It returns nil, nil when there is no live session.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	key := KeyPrefix + cookie.Value

	payload, err := s.client.GetEx(ctx, key, IdleTTL).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	remaining := s.remaining(&data)
	if remaining <= 0 {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			slog.Warn("failed to delete expired session", "error", err)
		}
		return nil, nil
	}
	if remaining < IdleTTL {
		// GETEX already reset the TTL to IdleTTL; pull it back under the cap.
		if err := s.client.Expire(ctx, key, remaining).Err(); err != nil {
			slog.Warn("failed to cap session ttl", "error", err)
		}
	}

	return &data, nil
}

// Rotate stores data under a fresh session ID, deletes the old one and
// reissues the cookie. Call it whenever the session gains privileges so a
// previously observed ID stops working. CreatedAt is preserved.
func (s *Store) Rotate(ctx context.Context, w http.ResponseWriter, r *http.Request, data *Data) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", fmt.Errorf("session rotate: %w", ErrNoSession)
	}

	if data.CreatedAt.IsZero() {
		data.CreatedAt = s.now()
	}
	id, err := s.put(ctx, w, data)
	if err != nil {
		return "", err
	}

	if err := s.client.Del(ctx, KeyPrefix+cookie.Value).Err(); err != nil {
		return "", fmt.Errorf("session rotate delete: %w", err)
	}
	return id, nil
}

// Destroy removes the session from Valkey and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	if err := s.client.Del(ctx, KeyPrefix+cookie.Value).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
	return nil
}

// put writes data under a new ID and sets the cookie.
func (s *Store) put(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	ttl := min(IdleTTL, s.remaining(data))
	if ttl <= 0 {
		return "", fmt.Errorf("session store: lifetime exceeded")
	}
	if err := s.client.Set(ctx, KeyPrefix+id, payload, ttl).Err(); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return id, nil
}

// remaining is the time left before data reaches MaxLifetime.
func (s *Store) remaining(data *Data) time.Duration {
	return data.CreatedAt.Add(MaxLifetime).Sub(s.now())
}

func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
