// SPDX-License-Identifier: MPL-2.0

package grab

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseChannelHeader(t *testing.T) {
	header, ok := ParseChannelHeader("My Channel || mychannel.id || breaking news")
	if !ok {
		t.Fatal("ParseChannelHeader() should accept a three-field line")
	}
	if header.Name != "My Channel" {
		t.Errorf("Name = %q", header.Name)
	}
	if header.ID != "mychannel.id" {
		t.Errorf("ID = %q", header.ID)
	}
	if header.Category != "Breaking News" {
		t.Errorf("Category = %q, want title-cased", header.Category)
	}
}

func TestParseChannelHeader_Malformed(t *testing.T) {
	if _, ok := ParseChannelHeader("just a name"); ok {
		t.Error("ParseChannelHeader() should reject lines without two separators")
	}
}

func TestFindM3U8(t *testing.T) {
	body := `<script>var player = {"hlsManifestUrl":"https://cdn.example.com/api/manifest/hls_variant/live.m3u8","other":1}</script>`

	link, ok := FindM3U8(body)
	if !ok {
		t.Fatal("FindM3U8() should find the manifest URL")
	}
	if link != "https://cdn.example.com/api/manifest/hls_variant/live.m3u8" {
		t.Errorf("FindM3U8() = %q", link)
	}
}

func TestFindM3U8_LongPrefix(t *testing.T) {
	// URL longer than the initial backwards window.
	long := "https://cdn.example.com/" + strings.Repeat("x", 150) + "/live.m3u8"
	body := "prefix " + long + " suffix"

	link, ok := FindM3U8(body)
	if !ok {
		t.Fatal("FindM3U8() should widen the window until the scheme is visible")
	}
	if link != long {
		t.Errorf("FindM3U8() = %q, want the full URL", link)
	}
}

func TestFindM3U8_NearStartOfBody(t *testing.T) {
	body := `https://cdn.example.com/a.m3u8 rest`

	link, ok := FindM3U8(body)
	if !ok || link != "https://cdn.example.com/a.m3u8" {
		t.Errorf("FindM3U8() = (%q, %v)", link, ok)
	}
}

func TestFindM3U8_NoManifest(t *testing.T) {
	if _, ok := FindM3U8("<html>nothing here</html>"); ok {
		t.Error("FindM3U8() should report a miss")
	}
}

func TestStreamURL_FallbackOnMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>no manifest</html>"))
	}))
	defer srv.Close()

	g := &Grabber{
		Client:        srv.Client(),
		FallbackURL:   "https://fallback.example.com/f.m3u8",
		retryDisabled: func() bool { return false },
	}

	if got := g.StreamURL(context.Background(), srv.URL); got != g.FallbackURL {
		t.Errorf("StreamURL() = %q, want the fallback", got)
	}
}

func TestStreamURL_RetrySucceeds(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		if hits == 1 {
			_, _ = w.Write([]byte("<html>warming up</html>"))
			return
		}
		_, _ = w.Write([]byte(`"https://cdn.example.com/live.m3u8"`))
	}))
	defer srv.Close()

	g := &Grabber{
		Client:        srv.Client(),
		FallbackURL:   "https://fallback.example.com/f.m3u8",
		retryDisabled: func() bool { return false },
	}

	if got := g.StreamURL(context.Background(), srv.URL); got != "https://cdn.example.com/live.m3u8" {
		t.Errorf("StreamURL() = %q, want the retried result", got)
	}
	if hits != 2 {
		t.Errorf("page fetched %d times, want 2", hits)
	}
}

func TestStreamURL_NoRetryWhenDisabled(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte("<html>no manifest</html>"))
	}))
	defer srv.Close()

	g := &Grabber{
		Client:        srv.Client(),
		FallbackURL:   "https://fallback.example.com/f.m3u8",
		retryDisabled: func() bool { return true },
	}

	g.StreamURL(context.Background(), srv.URL)
	if hits != 1 {
		t.Errorf("page fetched %d times with retry disabled, want 1", hits)
	}
}

func TestRun_PlainHeaderWithoutEPG(t *testing.T) {
	g := &Grabber{FallbackURL: "https://fallback.example.com/f.m3u8"}

	var out strings.Builder
	if err := g.Run(context.Background(), strings.NewReader("## nothing\n"), &out); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "#EXTM3U\n") {
		t.Errorf("header without an EPG URL should be plain #EXTM3U, got:\n%s", out.String())
	}
	if strings.Contains(out.String(), "x-tvg-url") {
		t.Error("header must not carry x-tvg-url when no EPG URL is configured")
	}
}

func TestRun(t *testing.T) {
	// Run only fetches https: lines, so the test server must be TLS.
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`player: "https://cdn.example.com/live.m3u8"`))
	}))
	defer srv.Close()

	list := `## comment line
My Channel || mychannel.id || news
` + srv.URL + `
`

	g := &Grabber{
		Client:        srv.Client(),
		FallbackURL:   "https://fallback.example.com/f.m3u8",
		EPGURL:        "https://example.com/epg.xml",
		retryDisabled: func() bool { return false },
	}

	var out strings.Builder
	if err := g.Run(context.Background(), strings.NewReader(list), &out); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	got := out.String()
	if !strings.HasPrefix(got, `#EXTM3U x-tvg-url="https://example.com/epg.xml"`) {
		t.Errorf("playlist header missing EPG reference:\n%s", got)
	}
	if !strings.Contains(got, `tvg-id="mychannel.id" tvg-name="My Channel" group-title="News", My Channel`) {
		t.Errorf("playlist missing channel EXTINF line:\n%s", got)
	}
	if !strings.Contains(got, "https://cdn.example.com/live.m3u8") {
		t.Errorf("playlist missing scraped stream URL:\n%s", got)
	}
	if strings.Contains(got, "## comment") {
		t.Error("comment lines must be skipped")
	}
}
