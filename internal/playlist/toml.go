// SPDX-License-Identifier: MPL-2.0

package playlist

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ChannelDef is the structured TOML variant of a link-list line. It allows
// explicit tvg metadata that the pipe-delimited format cannot express.
type ChannelDef struct {
	URL      string `toml:"url"`
	Name     string `toml:"name"`
	Category string `toml:"category"`
	TvgID    string `toml:"tvg_id"`
	TvgLogo  string `toml:"tvg_logo"`
}

type channelsFile struct {
	Channels []ChannelDef `toml:"channel"`
}

// LoadChannelsTOML reads a structured channel list:
//
//	[[channel]]
//	url      = "https://www.youtube.com/watch?v=xxxx"
//	name     = "My Channel"
//	category = "News"
//	tvg_id   = "mychannel"
//	tvg_logo = "https://example.com/logo.png"
func LoadChannelsTOML(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read channel list %s: %w", path, err)
	}

	var file channelsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse channel list %s: %w", path, err)
	}
	if len(file.Channels) == 0 {
		return nil, fmt.Errorf("channel list %s defines no channels", path)
	}

	sources := make([]Source, 0, len(file.Channels))
	for i, ch := range file.Channels {
		if ch.URL == "" {
			return nil, fmt.Errorf("channel list %s: channel %d has no url", path, i+1)
		}
		src := Source{
			URL:      ch.URL,
			Title:    ch.Name,
			Category: ch.Category,
			TvgID:    ch.TvgID,
			TvgLogo:  ch.TvgLogo,
		}
		if src.Title == "" {
			src.Title = DefaultTitle
		}
		if src.Category == "" {
			src.Category = DefaultCategory
		}
		if src.TvgID == "" {
			src.TvgID = TvgIDFor(src.Title)
		}
		sources = append(sources, src)
	}

	return sources, nil
}
