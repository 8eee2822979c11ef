// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package wordpress fetches curated itineraries from a WordPress REST API
// (an "itinerary" custom post type with ACF fields) and maps them into the
// portal's simplified Itinerary shape.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cruisy/internal/models"
)

const (
	// PerPage is the page-size cap requested from WordPress. Only the first
	// page is fetched.
	PerPage = 100

	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 8 << 20
)

// StatusError reports a non-2xx response from WordPress.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wordpress: server returned %d", e.Code)
}

// Client issues itinerary requests against one WordPress site.
type Client struct {
	baseURL  string
	postType string
	client   *http.Client
}

// New creates a client for the site at baseURL listing postType posts.
// A zero timeout falls back to 10 seconds.
func New(baseURL, postType string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if postType == "" {
		postType = "itinerary"
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		postType: postType,
		client:   &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the collection URL queried by FetchAll.
func (c *Client) Endpoint() string {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(PerPage))
	return c.baseURL + "/wp-json/wp/v2/" + url.PathEscape(c.postType) + "?" + q.Encode() + "&_embed"
}

// FetchAll downloads the first page of itineraries and maps them.
// Non-2xx responses return a *StatusError; a payload that is not a JSON
// array returns a decode error. There is no retry.
func (c *Client) FetchAll(ctx context.Context) ([]models.Itinerary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint(), nil)
	if err != nil {
		return nil, fmt.Errorf("wordpress request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wordpress http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("wordpress read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	return Decode(body)
}

// Decode parses a JSON array of posts. Individual records that cannot be
// decoded, and null records, are skipped and logged; the top level must be
// a well formed array.
func Decode(body []byte) ([]models.Itinerary, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("wordpress decode: %w", err)
	}
	if raw == nil {
		return nil, errors.New("wordpress decode: expected a JSON array, got null")
	}

	out := make([]models.Itinerary, 0, len(raw))
	for i, r := range raw {
		if bytes.Equal(bytes.TrimSpace(r), []byte("null")) {
			slog.Warn("skipping null itinerary record", "index", i)
			continue
		}
		var p post
		if err := json.Unmarshal(r, &p); err != nil {
			slog.Warn("skipping malformed itinerary record", "index", i, "error", err)
			continue
		}
		out = append(out, Map(p))
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
