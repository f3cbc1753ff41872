// SPDX-License-Identifier: MPL-2.0

// Package playlist models M3U playlists and the input lists they are
// generated from.
package playlist

import (
	"fmt"
	"io"
	"strings"
)

// Entry is one resolved playlist item: an EXTINF metadata line plus the
// stream URL that follows it.
type Entry struct {
	Title    string
	TvgID    string
	TvgName  string
	TvgLogo  string
	Category string
	URL      string
}

// ExtInf renders the #EXTINF metadata line for the entry.
// tvg-logo is emitted only when set; tvg-name only when set.
func (e Entry) ExtInf() string {
	var b strings.Builder
	b.WriteString("#EXTINF:-1")
	if e.TvgID != "" {
		fmt.Fprintf(&b, " tvg-id=%q", e.TvgID)
	}
	if e.TvgName != "" {
		fmt.Fprintf(&b, " tvg-name=%q", e.TvgName)
	}
	if e.TvgLogo != "" {
		fmt.Fprintf(&b, " tvg-logo=%q", e.TvgLogo)
	}
	if e.Category != "" {
		fmt.Fprintf(&b, " group-title=%q", e.Category)
	}
	b.WriteString(",")
	b.WriteString(e.Title)
	return b.String()
}

// Playlist is an ordered set of entries with an optional EPG reference
// embedded in the header.
type Playlist struct {
	EPGURL  string
	Entries []Entry
}

// Header renders the #EXTM3U header, including x-tvg-url when an EPG
// source is configured.
func (p *Playlist) Header() string {
	if p.EPGURL != "" {
		return fmt.Sprintf("#EXTM3U x-tvg-url=%q", p.EPGURL)
	}
	return "#EXTM3U"
}

// WriteTo writes the playlist in M3U format.
func (p *Playlist) WriteTo(w io.Writer) (int64, error) {
	var total int64

	n, err := fmt.Fprintln(w, p.Header())
	total += int64(n)
	if err != nil {
		return total, err
	}

	for _, e := range p.Entries {
		if e.URL == "" {
			continue
		}
		n, err := fmt.Fprintf(w, "%s\n%s\n", e.ExtInf(), e.URL)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// TvgIDFor derives a tvg-id from a display title: lowercased with spaces
// stripped, matching the historical extractor output.
func TvgIDFor(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", ""))
}
