// SPDX-License-Identifier: MPL-2.0

// Package piped queries a Piped API instance for the HLS manifest of a
// YouTube video, avoiding a yt-dlp invocation when the instance responds.
package piped

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"streamtom3u/internal/proxy"
)

// DefaultTimeout bounds one streams-endpoint request.
const DefaultTimeout = 10 * time.Second

// Client talks to one Piped instance.
type Client struct {
	base    string
	timeout time.Duration
	// newClient builds the HTTP client for a request, honoring the
	// per-attempt proxy. Swappable in tests.
	newClient func(proxyURL string) (*http.Client, error)
}

type streamsResponse struct {
	HLS string `json:"hls"`
}

// New returns a Client for the given instance base URL,
// e.g. "https://piped.video".
func New(base string) *Client {
	return &Client{
		base:      strings.TrimRight(base, "/"),
		timeout:   DefaultTimeout,
		newClient: proxy.HTTPClient,
	}
}

// HLS fetches /streams/<videoID> and returns the hls manifest URL.
// proxyURL may be empty for a direct connection.
func (c *Client) HLS(ctx context.Context, videoID, proxyURL string) (string, error) {
	endpoint := c.base + "/streams/" + url.PathEscape(videoID)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build piped request: %w", err)
	}

	httpClient, err := c.newClient(proxyURL)
	if err != nil {
		return "", err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("piped request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("piped returned status %d for video %s", resp.StatusCode, videoID)
	}

	var streams streamsResponse
	if err := json.NewDecoder(resp.Body).Decode(&streams); err != nil {
		return "", fmt.Errorf("failed to decode piped response: %w", err)
	}
	if streams.HLS == "" {
		return "", fmt.Errorf("piped has no hls stream for video %s", videoID)
	}

	return streams.HLS, nil
}
