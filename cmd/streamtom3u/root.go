// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for streamtom3u.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"streamtom3u/internal/config"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// appConfig is the loaded configuration, populated by initRootConfig.
	// Falls back to defaults when loading fails.
	appConfig *config.Config
	// appConfigPath is the path of the loaded config file ("" for defaults).
	appConfigPath string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "streamtom3u",
		Short: "Turn live-page links into IPTV-ready M3U playlists",
		Long: TitleStyle.Render("streamtom3u") + SubtitleStyle.Render(" - Turn live-page links into IPTV-ready M3U playlists") + `

streamtom3u resolves YouTube and other live-page URLs into direct stream
URLs using yt-dlp (with a Piped instance tried first for YouTube), and
writes them out as an M3U playlist with EXTINF metadata.

The required yt-dlp executable is checked before any extraction starts;
a missing install fails fast with an install hint.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Put your page URLs in links.txt (one 'URL|Category|Name' per line)
  2. Run: streamtom3u run
  3. Point your player at streams.m3u

` + SubtitleStyle.Render("Examples:") + `
  streamtom3u run             Check yt-dlp, then extract streams.m3u
  streamtom3u check           Report the status of external tools
  streamtom3u extract -i channels.toml
  streamtom3u grab < youtubeLink.txt > grabbed.m3u
  streamtom3u config show     Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/streamtom3u/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(grabCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	// Set custom config file path if provided via --config flag
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, path, err := config.Load()
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	appConfig = cfg
	appConfigPath = path

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}
}
