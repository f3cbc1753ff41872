// SPDX-License-Identifier: MPL-2.0

package config

import (
	"path/filepath"
	"strings"
	"testing"

	"streamtom3u/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.FormatSelector != "bestvideo[height<=1080]+bestaudio/best" {
		t.Errorf("expected default format selector, got %s", cfg.FormatSelector)
	}

	if cfg.MaxWorkers != 10 {
		t.Errorf("expected default max workers to be 10, got %d", cfg.MaxWorkers)
	}

	if cfg.MaxProxyAttempts != 3 {
		t.Errorf("expected default max proxy attempts to be 3, got %d", cfg.MaxProxyAttempts)
	}

	if cfg.InputFile != "links.txt" {
		t.Errorf("expected default input file to be links.txt, got %s", cfg.InputFile)
	}

	if cfg.OutputFile != "streams.m3u" {
		t.Errorf("expected default output file to be streams.m3u, got %s", cfg.OutputFile)
	}

	if cfg.YtdlpPath != "yt-dlp" {
		t.Errorf("expected default ytdlp path to be yt-dlp, got %s", cfg.YtdlpPath)
	}

	if cfg.ExtractorCommand != "" {
		t.Errorf("expected default extractor command to be empty, got %q", cfg.ExtractorCommand)
	}

	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}

	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(func() { SetConfigDirOverride("") })
	cleanup := testutil.MustChdir(t, t.TempDir())
	t.Cleanup(cleanup)

	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should use defaults, got: %v", err)
	}
	if path != "" {
		t.Errorf("Load() path = %q, want empty for defaults", path)
	}
	if cfg.MaxWorkers != 10 {
		t.Errorf("Load() MaxWorkers = %d, want default 10", cfg.MaxWorkers)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(func() { SetConfigDirOverride("") })

	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `
max_workers:    4
format_selector: "best"
ui: verbose: true
`)

	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("Load() path = %q, want config dir path", path)
	}
	if cfg.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want 4", cfg.MaxWorkers)
	}
	if cfg.FormatSelector != "best" {
		t.Errorf("FormatSelector = %q, want best", cfg.FormatSelector)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose should be true")
	}
	// Untouched keys keep their defaults.
	if cfg.OutputFile != "streams.m3u" {
		t.Errorf("OutputFile = %q, want default streams.m3u", cfg.OutputFile)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	SetConfigFilePathOverride(filepath.Join(t.TempDir(), "nope.cue"))
	t.Cleanup(func() { SetConfigFilePathOverride("") })

	_, _, err := Load()
	if err == nil {
		t.Fatal("Load() should fail for a missing explicit config path")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("error should mention the missing file, got: %v", err)
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(func() { SetConfigDirOverride("") })

	// max_workers above the schema ceiling.
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `max_workers: 200`)

	_, _, err := Load()
	if err == nil {
		t.Fatal("Load() should reject a config violating the schema")
	}
}

func TestLoad_InvalidCUE(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(func() { SetConfigDirOverride("") })

	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `max_workers: {{`)

	_, _, err := Load()
	if err == nil {
		t.Fatal("Load() should reject invalid CUE syntax")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxWorkers = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject max_workers = 0")
	}

	cfg = DefaultConfig()
	cfg.MaxProxyAttempts = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject max_proxy_attempts = 0")
	}

	cfg = DefaultConfig()
	cfg.UI.ColorScheme = "sepia"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject unknown color schemes")
	}
}
