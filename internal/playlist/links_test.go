// SPDX-License-Identifier: MPL-2.0

package playlist

import (
	"path/filepath"
	"testing"

	"streamtom3u/internal/testutil"
)

func TestParseLinkLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Source
	}{
		{
			name: "url only",
			line: "https://www.youtube.com/watch?v=abc123",
			want: Source{
				URL:      "https://www.youtube.com/watch?v=abc123",
				Category: "General",
				Title:    "Stream",
				TvgID:    "stream",
			},
		},
		{
			name: "url and category",
			line: "https://example.com/live | News ",
			want: Source{
				URL:      "https://example.com/live",
				Category: "News",
				Title:    "Stream",
				TvgID:    "stream",
			},
		},
		{
			name: "full line",
			line: "https://example.com/live|News|My Channel",
			want: Source{
				URL:      "https://example.com/live",
				Category: "News",
				Title:    "My Channel",
				TvgID:    "mychannel",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLinkLine(tt.line)
			if got != tt.want {
				t.Errorf("ParseLinkLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestLoadLinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.txt")
	testutil.MustWriteFile(t, path, `
https://example.com/a|News|Alpha

https://example.com/b
`)

	sources, err := LoadLinks(path)
	if err != nil {
		t.Fatalf("LoadLinks() failed: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("LoadLinks() returned %d sources, want 2", len(sources))
	}
	if sources[0].Title != "Alpha" {
		t.Errorf("sources[0].Title = %q, want Alpha", sources[0].Title)
	}
	if sources[1].Category != DefaultCategory {
		t.Errorf("sources[1].Category = %q, want default", sources[1].Category)
	}
}

func TestLoadLinks_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.txt")
	testutil.MustWriteFile(t, path, "\n\n")

	if _, err := LoadLinks(path); err == nil {
		t.Error("LoadLinks() should reject an empty link list")
	}
}

func TestLoadLinks_Missing(t *testing.T) {
	if _, err := LoadLinks(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("LoadLinks() should fail for a missing file")
	}
}

func TestLoadChannelsTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.toml")
	testutil.MustWriteFile(t, path, `
[[channel]]
url      = "https://www.youtube.com/watch?v=abc"
name     = "Alpha News"
category = "News"
tvg_logo = "https://example.com/alpha.png"

[[channel]]
url = "https://example.com/live"
`)

	sources, err := LoadChannelsTOML(path)
	if err != nil {
		t.Fatalf("LoadChannelsTOML() failed: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("LoadChannelsTOML() returned %d sources, want 2", len(sources))
	}
	if sources[0].TvgID != "alphanews" {
		t.Errorf("sources[0].TvgID = %q, want derived alphanews", sources[0].TvgID)
	}
	if sources[0].TvgLogo != "https://example.com/alpha.png" {
		t.Errorf("sources[0].TvgLogo = %q", sources[0].TvgLogo)
	}
	if sources[1].Title != DefaultTitle || sources[1].Category != DefaultCategory {
		t.Errorf("sources[1] should fall back to defaults, got %+v", sources[1])
	}
}

func TestLoadChannelsTOML_MissingURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.toml")
	testutil.MustWriteFile(t, path, `
[[channel]]
name = "No URL"
`)

	if _, err := LoadChannelsTOML(path); err == nil {
		t.Error("LoadChannelsTOML() should reject a channel without url")
	}
}
