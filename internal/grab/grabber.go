// SPDX-License-Identifier: MPL-2.0

// Package grab scrapes live-page HTML for .m3u8 manifest URLs and prints a
// ready-to-play M3U playlist from a channel list.
//
// The channel list format interleaves metadata headers and page URLs:
//
//	## comment, skipped
//	My Channel || mychannel.id || news
//	https://www.youtube.com/channel/xxxx/live
package grab

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"streamtom3u/internal/platform"
	"streamtom3u/internal/playlist"

	"github.com/charmbracelet/log"
)

// DefaultTimeout bounds one page fetch.
const DefaultTimeout = 15 * time.Second

// Grabber fetches channel pages and emits playlist lines.
type Grabber struct {
	// Client performs page fetches. Nil uses a client with DefaultTimeout.
	Client *http.Client
	// FallbackURL is printed for pages where no .m3u8 URL was found.
	FallbackURL string
	// EPGURL is embedded in the playlist header.
	EPGURL string
	// Logger receives fetch diagnostics. Nil discards.
	Logger *log.Logger
	// retryDisabled mirrors the historical behavior of skipping the
	// second fetch attempt on Windows. Overridable in tests.
	retryDisabled func() bool
}

// ChannelHeader is one parsed `Name || id || category` metadata line.
type ChannelHeader struct {
	Name     string
	ID       string
	Category string
}

// ParseChannelHeader parses a `Name || id || category` line.
// The category is title-cased for group-title consistency.
func ParseChannelHeader(line string) (ChannelHeader, bool) {
	parts := strings.Split(line, "||")
	if len(parts) < 3 {
		return ChannelHeader{}, false
	}
	return ChannelHeader{
		Name:     strings.TrimSpace(parts[0]),
		ID:       strings.TrimSpace(parts[1]),
		Category: titleCase(strings.TrimSpace(parts[2])),
	}, true
}

// FindM3U8 locates the first .m3u8 URL in a page body. It finds the end of
// the manifest reference, then widens a window backwards until the
// https:// scheme comes into view.
func FindM3U8(body string) (string, bool) {
	end := strings.Index(body, ".m3u8")
	if end == -1 {
		return "", false
	}
	end += len(".m3u8")

	window := 100
	if window > end {
		window = end
	}
	for ; window <= end; window += 5 {
		chunk := body[end-window : end]
		if start := strings.Index(chunk, "https://"); start != -1 {
			link := chunk[start:]
			if tail := strings.Index(link, ".m3u8"); tail != -1 {
				return link[:tail+len(".m3u8")], true
			}
		}
	}
	return "", false
}

// StreamURL fetches pageURL and returns the first .m3u8 URL found in the
// body. When the first fetch misses, one retry is made (except on Windows,
// matching the original tooling); after that the fallback URL is returned.
func (g *Grabber) StreamURL(ctx context.Context, pageURL string) string {
	logger := g.logger()

	body, err := g.fetch(ctx, pageURL)
	if err == nil {
		if link, ok := FindM3U8(body); ok {
			return link
		}
	} else {
		logger.Debug("page fetch failed", "url", pageURL, "err", err)
	}

	if !g.canRetry() {
		logger.Warn("no stream found", "url", pageURL)
		return g.FallbackURL
	}

	body, err = g.fetch(ctx, pageURL)
	if err == nil {
		if link, ok := FindM3U8(body); ok {
			return link
		}
	} else {
		logger.Debug("page fetch retry failed", "url", pageURL, "err", err)
	}

	logger.Warn("no stream found", "url", pageURL)
	return g.FallbackURL
}

// Run processes a channel list and writes the playlist to w.
func (g *Grabber) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	header := &playlist.Playlist{EPGURL: g.EPGURL}
	fmt.Fprintln(w, header.Header())

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "##") {
			continue
		}

		if !strings.HasPrefix(line, "https:") {
			header, ok := ParseChannelHeader(line)
			if !ok {
				g.logger().Warn("skipping malformed channel header", "line", line)
				continue
			}
			fmt.Fprintf(w, "\n#EXTINF:-1 tvg-id=%q tvg-name=%q group-title=%q, %s\n",
				header.ID, header.Name, header.Category, header.Name)
			continue
		}

		fmt.Fprintln(w, g.StreamURL(ctx, line))
	}
	return scanner.Err()
}

func (g *Grabber) fetch(ctx context.Context, pageURL string) (string, error) {
	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build page request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("page fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read page body: %w", err)
	}
	return string(body), nil
}

func (g *Grabber) canRetry() bool {
	if g.retryDisabled != nil {
		return !g.retryDisabled()
	}
	return !platform.IsWindows()
}

func (g *Grabber) logger() *log.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return log.New(io.Discard)
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
