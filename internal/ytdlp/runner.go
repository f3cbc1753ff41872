// SPDX-License-Identifier: MPL-2.0

// Package ytdlp shells out to yt-dlp to resolve page URLs into direct
// stream URLs.
package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// execFunc runs a command and returns its stdout. Injectable for tests.
type execFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Runner wraps the yt-dlp executable.
type Runner struct {
	bin    string
	format string
	run    execFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithExec overrides the process execution function, for tests.
func WithExec(run execFunc) Option {
	return func(r *Runner) { r.run = run }
}

// New returns a Runner invoking the given binary (name or path) with the
// given -f format selector.
func New(bin, format string, opts ...Option) *Runner {
	if bin == "" {
		bin = "yt-dlp"
	}
	r := &Runner{bin: bin, format: format, run: runCommand}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StreamURL resolves pageURL into a direct stream URL using
// `yt-dlp -f <format> --get-url [--proxy <proxy>] <url>`.
// Only http(s) lines from stdout are considered; the last one wins, which
// for combined video+audio formats is the manifest URL.
func (r *Runner) StreamURL(ctx context.Context, pageURL, proxyURL string) (string, error) {
	args := []string{"-f", r.format, "--get-url", "--no-warnings"}
	if proxyURL != "" {
		args = append(args, "--proxy", proxyURL)
	}
	args = append(args, pageURL)

	out, err := r.run(ctx, r.bin, args...)
	if err != nil {
		return "", fmt.Errorf("yt-dlp failed for %s: %w", pageURL, err)
	}

	streamURL := lastHTTPLine(string(out))
	if streamURL == "" {
		return "", fmt.Errorf("yt-dlp returned no stream URL for %s", pageURL)
	}
	return streamURL, nil
}

// Version probes `yt-dlp --version`, returning the trimmed version string.
func (r *Runner) Version(ctx context.Context) (string, error) {
	out, err := r.run(ctx, r.bin, "--version")
	if err != nil {
		return "", fmt.Errorf("yt-dlp version probe failed: %w", err)
	}
	version := strings.TrimSpace(string(out))
	if version == "" {
		return "", fmt.Errorf("yt-dlp version probe returned no output")
	}
	return version, nil
}

func lastHTTPLine(out string) string {
	var last string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			last = line
		}
	}
	return last
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
