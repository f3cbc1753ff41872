// SPDX-License-Identifier: MPL-2.0

// Package extract resolves link lists into playable stream URLs and
// assembles the output playlist.
//
// Every source gets a bounded number of resolution attempts, each with a
// freshly drawn proxy. YouTube links try a Piped instance first, then
// yt-dlp; anything else goes straight to yt-dlp. Sources that exhaust
// their attempts resolve to the configured fallback URL, so the generated
// playlist always has one entry per source.
package extract

import (
	"context"
	"io"
	"regexp"
	"strings"
	"sync"

	"streamtom3u/internal/playlist"
	"streamtom3u/internal/proxy"

	"github.com/charmbracelet/log"
)

// StreamResolver resolves a page URL into a direct stream URL,
// optionally through a proxy. Implemented by ytdlp.Runner.
type StreamResolver interface {
	StreamURL(ctx context.Context, pageURL, proxyURL string) (string, error)
}

// HLSClient resolves a YouTube video id into an HLS manifest URL.
// Implemented by piped.Client.
type HLSClient interface {
	HLS(ctx context.Context, videoID, proxyURL string) (string, error)
}

// youtubeIDPattern extracts the video id from watch and short-link URLs.
var youtubeIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/)([A-Za-z0-9_-]{6,})`)

// Pipeline resolves sources into playlist entries.
type Pipeline struct {
	// Resolver is the yt-dlp backend. Required.
	Resolver StreamResolver
	// Piped is tried before Resolver for YouTube links. Optional.
	Piped HLSClient
	// Proxies supplies per-attempt proxies. A nil or empty pool means
	// direct connections.
	Proxies *proxy.Pool
	// MaxAttempts is the number of resolution attempts per source.
	MaxAttempts int
	// Workers bounds the number of sources resolved concurrently.
	Workers int
	// FallbackURL is used for sources that exhaust their attempts.
	FallbackURL string
	// Logger receives per-attempt progress. Nil discards.
	Logger *log.Logger
}

// Result summarizes one pipeline run.
type Result struct {
	Entries  []playlist.Entry
	Resolved int // sources resolved to a real stream URL
	Fell     int // sources that resolved to the fallback URL
}

// Run resolves all sources, preserving input order in the returned entries.
func (p *Pipeline) Run(ctx context.Context, sources []playlist.Source) Result {
	logger := p.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(sources) {
		workers = len(sources)
	}

	entries := make([]playlist.Entry, len(sources))
	resolved := make([]bool, len(sources))

	jobs := make(chan int)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				entries[i], resolved[i] = p.resolveOne(ctx, logger, sources[i])
			}
		}()
	}

	for i := range sources {
		select {
		case <-ctx.Done():
			// Remaining sources resolve to the fallback so the playlist
			// stays complete even on early cancellation.
			for j := i; j < len(sources); j++ {
				if entries[j].URL == "" {
					entries[j] = p.fallbackEntry(sources[j])
				}
			}
			close(jobs)
			wg.Wait()
			return p.summarize(entries, resolved)
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return p.summarize(entries, resolved)
}

func (p *Pipeline) summarize(entries []playlist.Entry, resolved []bool) Result {
	res := Result{Entries: entries}
	for i := range entries {
		if resolved[i] {
			res.Resolved++
		} else {
			res.Fell++
		}
	}
	return res
}

// resolveOne tries all attempts for a single source. The boolean result
// reports whether a real stream URL was found (false means fallback).
func (p *Pipeline) resolveOne(ctx context.Context, logger *log.Logger, src playlist.Source) (playlist.Entry, bool) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			break
		}

		proxyURL := ""
		if p.Proxies != nil {
			proxyURL = p.Proxies.Random()
		}
		if proxyURL != "" {
			logger.Info("resolving", "title", src.Title, "attempt", attempt, "of", attempts, "proxy", proxyURL)
		} else {
			logger.Info("resolving", "title", src.Title, "attempt", attempt, "of", attempts)
		}

		if p.Piped != nil && IsYouTube(src.URL) {
			if id, ok := VideoID(src.URL); ok {
				hls, err := p.Piped.HLS(ctx, id, proxyURL)
				if err == nil {
					return p.entryFor(src, hls), true
				}
				logger.Debug("piped miss", "title", src.Title, "err", err)
			}
		}

		streamURL, err := p.Resolver.StreamURL(ctx, src.URL, proxyURL)
		if err == nil {
			return p.entryFor(src, streamURL), true
		}
		logger.Debug("yt-dlp miss", "title", src.Title, "err", err)
	}

	logger.Warn("falling back", "title", src.Title, "url", src.URL)
	return p.fallbackEntry(src), false
}

func (p *Pipeline) entryFor(src playlist.Source, streamURL string) playlist.Entry {
	return playlist.Entry{
		Title:    src.Title,
		TvgID:    src.TvgID,
		TvgLogo:  src.TvgLogo,
		Category: src.Category,
		URL:      streamURL,
	}
}

func (p *Pipeline) fallbackEntry(src playlist.Source) playlist.Entry {
	return p.entryFor(src, p.FallbackURL)
}

// IsYouTube reports whether a URL points at YouTube.
func IsYouTube(rawURL string) bool {
	return strings.Contains(rawURL, "youtube.com") || strings.Contains(rawURL, "youtu.be")
}

// VideoID extracts the YouTube video id from a watch or short-link URL.
func VideoID(rawURL string) (string, bool) {
	m := youtubeIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}
