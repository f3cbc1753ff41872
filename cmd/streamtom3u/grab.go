// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"

	"streamtom3u/internal/grab"
	"streamtom3u/internal/issue"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	grabInput string

	grabCmd = &cobra.Command{
		Use:   "grab",
		Short: "Scrape live pages for .m3u8 URLs and print an M3U playlist",
		Long: `Reads a channel list mixing 'Name || id || category' metadata
headers and live-page URLs, scrapes each page for its .m3u8 manifest
URL, and prints the assembled playlist to stdout. Pages that yield no
manifest fall back to the configured placeholder stream.

Reads from stdin when the channel list is piped in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadedConfig()

			logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "grab"})
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}

			grabber := &grab.Grabber{
				FallbackURL: cfg.FallbackURL,
				EPGURL:      cfg.EPGURL,
				Logger:      logger,
			}

			// Piped input wins over the file so the command composes in
			// shell pipelines.
			if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
				return grabber.Run(cmd.Context(), os.Stdin, cmd.OutOrStdout())
			}

			input := grabInput
			if input == "" {
				input = cfg.ChannelsFile
			}
			f, err := os.Open(input)
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("open channel list").
					WithResource(input).
					WithSuggestion("Create the file or pipe the list via stdin").
					WithSuggestion("Example line: My Channel || mychannel.id || news").
					Wrap(err).
					BuildError()
			}
			defer f.Close()

			return grabber.Run(cmd.Context(), f, cmd.OutOrStdout())
		},
	}
)

func init() {
	grabCmd.Flags().StringVarP(&grabInput, "input", "i", "", "channel list to read (default from config, youtubeLink.txt)")
}
