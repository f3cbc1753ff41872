// SPDX-License-Identifier: MPL-2.0

// Package proxy loads the optional proxy list and hands out random picks
// for per-attempt rotation.
package proxy

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Pool is an immutable set of proxy URLs. The zero value is an empty pool.
type Pool struct {
	proxies []string
	pick    func(n int) int
}

// Load reads a proxy list file, one proxy URL per line, skipping blanks.
// A missing file yields an empty pool, not an error: proxies are optional.
func Load(path string) (*Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Pool{}, nil
		}
		return nil, fmt.Errorf("failed to open proxy list %s: %w", path, err)
	}
	defer f.Close()

	var proxies []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		proxies = append(proxies, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read proxy list %s: %w", path, err)
	}

	return &Pool{proxies: proxies}, nil
}

// New builds a pool from an explicit proxy slice.
func New(proxies []string) *Pool {
	return &Pool{proxies: proxies}
}

// Random returns a random proxy URL, or "" when the pool is empty.
func (p *Pool) Random() string {
	if len(p.proxies) == 0 {
		return ""
	}
	pick := p.pick
	if pick == nil {
		pick = rand.IntN
	}
	return p.proxies[pick(len(p.proxies))]
}

// Size returns the number of proxies in the pool.
func (p *Pool) Size() int {
	return len(p.proxies)
}

// HTTPClient returns an HTTP client routing requests through proxyURL.
// An empty proxyURL yields a plain client with direct connections.
func HTTPClient(proxyURL string) (*http.Client, error) {
	if proxyURL == "" {
		return &http.Client{}, nil
	}

	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %q: %w", proxyURL, err)
	}
	return &http.Client{
		Transport: &http.Transport{Proxy: http.ProxyURL(parsed)},
	}, nil
}
