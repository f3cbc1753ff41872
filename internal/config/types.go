// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidWorkerCount is returned when max_workers is out of range.
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	// ErrInvalidAttemptCount is returned when max_proxy_attempts is out of range.
	ErrInvalidAttemptCount = errors.New("invalid proxy attempt count")
)

type (
	// ColorScheme selects the terminal color scheme for styled output.
	ColorScheme string

	// UIConfig holds user-interface related settings.
	UIConfig struct {
		Verbose     bool        `mapstructure:"verbose"`
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
	}

	// Config is the root configuration for streamtom3u.
	Config struct {
		// FormatSelector is passed to yt-dlp via -f.
		FormatSelector string `mapstructure:"format_selector"`
		// MaxWorkers bounds the extraction worker pool.
		MaxWorkers int `mapstructure:"max_workers"`
		// MaxProxyAttempts is the number of resolution attempts per entry
		// before falling back to FallbackURL.
		MaxProxyAttempts int `mapstructure:"max_proxy_attempts"`
		// FallbackURL is emitted for entries that could not be resolved.
		FallbackURL string `mapstructure:"fallback_url"`
		// PipedInstance is the base URL of the Piped API instance tried
		// before yt-dlp for YouTube links.
		PipedInstance string `mapstructure:"piped_instance"`
		// EPGURL is embedded in the playlist header as x-tvg-url.
		EPGURL string `mapstructure:"epg_url"`
		// InputFile is the link list consumed by the extractor.
		InputFile string `mapstructure:"input_file"`
		// OutputFile is the playlist written by the extractor.
		OutputFile string `mapstructure:"output_file"`
		// ProxyFile lists proxies, one per line. Missing file means no proxies.
		ProxyFile string `mapstructure:"proxy_file"`
		// ChannelsFile is the channel list consumed by the grabber.
		ChannelsFile string `mapstructure:"channels_file"`
		// ExtractorCommand, when set, is launched as an external child process
		// by 'run' instead of the built-in pipeline.
		ExtractorCommand string `mapstructure:"extractor_command"`
		// YtdlpPath overrides the yt-dlp executable name or path.
		YtdlpPath string `mapstructure:"ytdlp_path"`

		UI UIConfig `mapstructure:"ui"`
	}
)

// DefaultConfig returns the built-in defaults. They mirror the historical
// extractor behavior: 1080p-capped best format, 10 workers, 3 attempts.
func DefaultConfig() *Config {
	return &Config{
		FormatSelector:   "bestvideo[height<=1080]+bestaudio/best",
		MaxWorkers:       10,
		MaxProxyAttempts: 3,
		FallbackURL:      "https://raw.githubusercontent.com/fakuz/Streamtom3u/refs/heads/main/fallback/fallback.m3u8",
		PipedInstance:    "https://piped.video",
		EPGURL:           "https://github.com/botallen/epg/releases/download/latest/epg.xml",
		InputFile:        "links.txt",
		OutputFile:       "streams.m3u",
		ProxyFile:        "proxies.txt",
		ChannelsFile:     "youtubeLink.txt",
		YtdlpPath:        "yt-dlp",
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Validate checks constraints the CUE schema cannot see once defaults have
// been merged in (viper defaults bypass schema unification).
func (c *Config) Validate() error {
	if c.MaxWorkers < 1 || c.MaxWorkers > 64 {
		return fmt.Errorf("%w: max_workers must be between 1 and 64, got %d", ErrInvalidWorkerCount, c.MaxWorkers)
	}
	if c.MaxProxyAttempts < 1 {
		return fmt.Errorf("%w: max_proxy_attempts must be at least 1, got %d", ErrInvalidAttemptCount, c.MaxProxyAttempts)
	}
	switch c.UI.ColorScheme {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidColorScheme, c.UI.ColorScheme)
	}
	return nil
}
