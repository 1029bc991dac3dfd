// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package figma calls the external design-tool export function, which
// creates a Figma file and pushes the palette and typography as styles.
package figma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"designhub/internal/models"
)

// maxResponseSize caps how much of the function's response is read.
const maxResponseSize = 1 << 20

// ErrExportFailed is returned when the function answers with success=false.
var ErrExportFailed = errors.New("figma export failed")

// Component is the summary of a catalog component sent with an export.
type Component struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Request is the export function's input.
type Request struct {
	Name         string              `json:"name"`
	ColorPalette models.ColorPalette `json:"colorPalette"`
	Typography   models.Typography   `json:"typography"`
	Components   []Component         `json:"components"`
}

// Result is the export function's successful output.
type Result struct {
	Success bool   `json:"success"`
	FileKey string `json:"fileKey"`
	FileURL string `json:"fileUrl"`
}

type response struct {
	Result
	Error string `json:"error"`
}

// Client posts export requests to the function URL.
type Client struct {
	url    string
	token  string
	client *http.Client
}

// New creates a client. Returns nil when url is empty so callers can treat
// the export as disabled.
func New(url, token string) *Client {
	if url == "" {
		return nil
	}
	return &Client{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Export sends req and returns the created file's key and URL.
func (c *Client) Export(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("figma export: name is required")
	}
	if req.Components == nil {
		req.Components = []Component{}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("figma marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("figma request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("figma http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("figma read body: %w", err)
	}

	var out response
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && out.Error != "" {
			return nil, fmt.Errorf("%w (status %d): %s", ErrExportFailed, resp.StatusCode, out.Error)
		}
		return nil, fmt.Errorf("%w (status %d): %s", ErrExportFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("figma unmarshal: %w", decodeErr)
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("%w: %s", ErrExportFailed, msg)
	}

	return &out.Result, nil
}
