// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"streamtom3u/internal/config"
	"streamtom3u/internal/issue"

	"github.com/spf13/cobra"
)

// starterConfig is written by 'config init'. Every key is optional; the
// generated file documents the defaults without changing them.
const starterConfig = `// streamtom3u configuration (CUE format).
// All keys are optional; unset keys keep their built-in defaults.

// format_selector:    "bestvideo[height<=1080]+bestaudio/best"
// max_workers:        10
// max_proxy_attempts: 3
// input_file:         "links.txt"
// output_file:        "streams.m3u"
// proxy_file:         "proxies.txt"
// channels_file:      "youtubeLink.txt"
// piped_instance:     "https://piped.video"
// ytdlp_path:         "yt-dlp"
// extractor_command:  ""

ui: {
	// verbose:      false
	// color_scheme: "auto"
}
`

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage streamtom3u configuration",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadedConfig()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, TitleStyle.Render("Configuration"))
			if appConfigPath != "" {
				fmt.Fprintf(out, "  %s %s\n\n", SubtitleStyle.Render("loaded from:"), appConfigPath)
			} else {
				fmt.Fprintf(out, "  %s\n\n", SubtitleStyle.Render("built-in defaults (no config file found)"))
			}

			fmt.Fprintf(out, "  format_selector:    %s\n", cfg.FormatSelector)
			fmt.Fprintf(out, "  max_workers:        %d\n", cfg.MaxWorkers)
			fmt.Fprintf(out, "  max_proxy_attempts: %d\n", cfg.MaxProxyAttempts)
			fmt.Fprintf(out, "  fallback_url:       %s\n", cfg.FallbackURL)
			fmt.Fprintf(out, "  piped_instance:     %s\n", cfg.PipedInstance)
			fmt.Fprintf(out, "  epg_url:            %s\n", cfg.EPGURL)
			fmt.Fprintf(out, "  input_file:         %s\n", cfg.InputFile)
			fmt.Fprintf(out, "  output_file:        %s\n", cfg.OutputFile)
			fmt.Fprintf(out, "  proxy_file:         %s\n", cfg.ProxyFile)
			fmt.Fprintf(out, "  channels_file:      %s\n", cfg.ChannelsFile)
			fmt.Fprintf(out, "  extractor_command:  %s\n", cfg.ExtractorCommand)
			fmt.Fprintf(out, "  ytdlp_path:         %s\n", cfg.YtdlpPath)
			fmt.Fprintf(out, "  ui.verbose:         %v\n", cfg.UI.Verbose)
			fmt.Fprintf(out, "  ui.color_scheme:    %s\n", cfg.UI.ColorScheme)
			return nil
		},
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if appConfigPath != "" {
				fmt.Fprintln(cmd.OutOrStdout(), appConfigPath)
				return nil
			}
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a starter config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			path := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)

			if _, err := os.Stat(path); err == nil {
				return issue.NewErrorContext().
					WithOperation("initialize configuration").
					WithResource(path).
					WithSuggestion("Remove or edit the existing file instead").
					Wrap(fmt.Errorf("config file already exists")).
					BuildError()
			}

			if err := os.MkdirAll(cfgDir, 0o755); err != nil {
				return issue.WrapWithOperation(err, "create config directory")
			}
			if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
				return issue.WrapWithOperation(err, "write starter config")
			}

			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓ ")+"Created "+CmdStyle.Render(path))
			return nil
		},
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}
