// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"streamtom3u/internal/config"
	"streamtom3u/internal/extract"
	"streamtom3u/internal/issue"
	"streamtom3u/internal/piped"
	"streamtom3u/internal/playlist"
	"streamtom3u/internal/proxy"
	"streamtom3u/internal/ytdlp"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	extractInput    string
	extractOutput   string
	extractWorkers  int
	extractAttempts int

	extractCmd = &cobra.Command{
		Use:   "extract",
		Short: "Resolve a link list into an M3U playlist",
		Long: `Reads a link list ('URL|Category|Name' lines, or a structured
.toml channel list), resolves each entry to a direct stream URL, and
writes the result as an M3U playlist.

YouTube entries are tried against the configured Piped instance first;
everything falls back to yt-dlp, and entries that cannot be resolved at
all use the configured fallback stream so the playlist stays complete.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := extractOptions{
				input:    extractInput,
				output:   extractOutput,
				workers:  extractWorkers,
				attempts: extractAttempts,
			}
			return runExtraction(cmd.Context(), loadedConfig(), opts, cmd.OutOrStdout())
		},
	}
)

func init() {
	extractCmd.Flags().StringVarP(&extractInput, "input", "i", "", "link list to read (default from config, links.txt)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "playlist file to write (default from config, streams.m3u)")
	extractCmd.Flags().IntVar(&extractWorkers, "workers", 0, "number of concurrent resolvers (default from config)")
	extractCmd.Flags().IntVar(&extractAttempts, "attempts", 0, "resolution attempts per entry (default from config)")
}

// extractOptions are per-invocation overrides; zero values defer to config.
type extractOptions struct {
	input    string
	output   string
	workers  int
	attempts int
}

// runExtraction wires the extraction pipeline from config and runs it.
// Shared by 'extract' and the built-in path of 'run'.
func runExtraction(ctx context.Context, cfg *config.Config, opts extractOptions, out io.Writer) error {
	input := opts.input
	if input == "" {
		input = cfg.InputFile
	}

	sources, err := loadSources(input)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("load link list").
			WithResource(input).
			WithSuggestion("Create the file with one 'URL|Category|Name' entry per line").
			WithSuggestion("Or pass a different list with --input").
			Wrap(err).
			BuildError()
	}

	proxies, err := proxy.Load(cfg.ProxyFile)
	if err != nil {
		return issue.WrapWithOperation(err, "load proxy list")
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "extract"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	pipeline := &extract.Pipeline{
		Resolver:    ytdlp.New(cfg.YtdlpPath, cfg.FormatSelector),
		Proxies:     proxies,
		MaxAttempts: opts.attempts,
		Workers:     opts.workers,
		FallbackURL: cfg.FallbackURL,
		Logger:      logger,
	}
	if pipeline.MaxAttempts == 0 {
		pipeline.MaxAttempts = cfg.MaxProxyAttempts
	}
	if pipeline.Workers == 0 {
		pipeline.Workers = cfg.MaxWorkers
	}
	if cfg.PipedInstance != "" {
		pipeline.Piped = piped.New(cfg.PipedInstance)
	}

	result := pipeline.Run(ctx, sources)

	output := opts.output
	if output == "" {
		output = cfg.OutputFile
	}

	if err := writePlaylist(output, result.Entries); err != nil {
		return issue.NewErrorContext().
			WithOperation("write playlist").
			WithResource(output).
			WithSuggestion("Check that the output directory exists and is writable").
			Wrap(err).
			BuildError()
	}

	fmt.Fprintln(out, SuccessStyle.Render("✓ ")+fmt.Sprintf("M3U playlist generated: %s", CmdStyle.Render(output)))
	fmt.Fprintf(out, "  %d resolved, %d fell back\n", result.Resolved, result.Fell)
	if result.Resolved == 0 {
		fmt.Fprintln(out, WarningStyle.Render("Warning: ")+"no entries could be resolved; the playlist only carries fallback streams")
	}
	return nil
}

// loadSources picks the parser from the file extension: .toml is the
// structured channel list, everything else the pipe-delimited format.
func loadSources(path string) ([]playlist.Source, error) {
	if strings.HasSuffix(path, ".toml") {
		return playlist.LoadChannelsTOML(path)
	}
	return playlist.LoadLinks(path)
}

func writePlaylist(path string, entries []playlist.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	pl := &playlist.Playlist{Entries: entries}
	if _, err := pl.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
