// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package settings

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxLogoSize is the maximum accepted logo size in bytes (2 MiB).
const MaxLogoSize = 2 << 20

// logoKeyPrefix is the object key prefix for uploaded logos.
const logoKeyPrefix = "logos/"

// Logo is an uploaded logo file.
type Logo struct {
	Filename    string
	ContentType string // as declared by the client; may be empty
	Data        []byte
}

// ValidateLogo checks size and type and returns the effective content type.
// An empty or generic declared type is replaced by one sniffed from the
// bytes. The image itself is not decoded.
func ValidateLogo(l Logo) (string, error) {
	if len(l.Data) == 0 {
		return "", ErrLogoEmpty
	}
	if len(l.Data) > MaxLogoSize {
		return "", ErrLogoTooLarge
	}

	ct := strings.ToLower(strings.TrimSpace(l.ContentType))
	if ct == "" || ct == "application/octet-stream" {
		ct = mimetype.Detect(l.Data).String()
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("%w: got %q", ErrLogoType, ct)
	}
	return ct, nil
}

// LogoSink turns validated logo bytes into a URL that can be stored in the
// bundle.
type LogoSink interface {
	StoreLogo(ctx context.Context, l Logo, contentType string) (string, error)
}

// DataURLSink inlines the logo as a base64 data URL.
type DataURLSink struct{}

// StoreLogo implements LogoSink.
func (DataURLSink) StoreLogo(_ context.Context, l Logo, contentType string) (string, error) {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(l.Data), nil
}

// LogoRemover is implemented by sinks that can delete a logo they stored
// earlier. Sinks that keep nothing outside the bundle do not implement it.
type LogoRemover interface {
	RemoveLogo(ctx context.Context, url string) error
}

// Uploader stores, locates and deletes objects. storage.Client satisfies it.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
	ExtractKey(rawURL string) (string, bool)
}

// ObjectSink uploads logos to object storage under logos/<uuid><ext>.
type ObjectSink struct {
	uploader Uploader
}

// NewObjectSink creates a sink that uploads through u.
func NewObjectSink(u Uploader) *ObjectSink {
	return &ObjectSink{uploader: u}
}

// StoreLogo implements LogoSink.
func (s *ObjectSink) StoreLogo(ctx context.Context, l Logo, contentType string) (string, error) {
	key := logoKeyPrefix + uuid.New().String() + logoExtension(l.Filename, contentType)
	url, err := s.uploader.Upload(ctx, key, contentType, bytes.NewReader(l.Data), int64(len(l.Data)))
	if err != nil {
		return "", fmt.Errorf("upload logo: %w", err)
	}
	return url, nil
}

// RemoveLogo implements LogoRemover. URLs outside the bucket or outside
// the logos/ prefix are left alone.
func (s *ObjectSink) RemoveLogo(ctx context.Context, url string) error {
	key, ok := s.uploader.ExtractKey(url)
	if !ok || !strings.HasPrefix(key, logoKeyPrefix) {
		return nil
	}
	if err := s.uploader.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove logo: %w", err)
	}
	return nil
}

// logoExtension prefers the uploaded file's extension and falls back to the
// canonical extension for contentType.
func logoExtension(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); len(ext) > 1 && len(ext) <= 6 && isAlnum(ext[1:]) {
		return ext
	}
	if m := mimetype.Lookup(contentType); m != nil {
		return m.Extension()
	}
	return ""
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
