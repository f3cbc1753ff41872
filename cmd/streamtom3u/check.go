// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"streamtom3u/internal/config"
	"streamtom3u/internal/deps"
	"streamtom3u/internal/issue"
	"streamtom3u/internal/ytdlp"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report the status of required external tools",
	Long: `Checks every external tool streamtom3u depends on and prints one
status line per tool. Exits with status 1 when a required tool is
missing; optional tools only affect the report.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCheck(cmd.Context(), cmd.OutOrStdout(), loadedConfig(), deps.NewChecker(nil), probeYtdlpVersion)
	},
}

// toolRequirements lists the external tools the pipeline shells out to.
// ffmpeg is optional: yt-dlp only needs it for formats requiring a merge.
func toolRequirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		ytdlpRequirement(cfg.YtdlpPath),
		{
			Name:        "ffmpeg",
			Required:    false,
			InstallHint: "sudo apt install ffmpeg",
		},
	}
}

// versionProbe resolves the installed yt-dlp version. Injectable for tests.
type versionProbe func(ctx context.Context, cfg *config.Config) (string, error)

func probeYtdlpVersion(ctx context.Context, cfg *config.Config) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return ytdlp.New(cfg.YtdlpPath, cfg.FormatSelector).Version(ctx)
}

// runCheck prints the doctor report and fails when a required tool is absent.
func runCheck(ctx context.Context, out io.Writer, cfg *config.Config, checker *deps.Checker, probe versionProbe) error {
	fmt.Fprintln(out, TitleStyle.Render("External tools"))

	var missingRequired []deps.Status
	for _, status := range checker.Report(toolRequirements(cfg)) {
		switch {
		case status.Found && status.Name == "yt-dlp":
			detail := status.Path
			if probe != nil {
				if version, err := probe(ctx, cfg); err == nil {
					detail = fmt.Sprintf("%s (%s)", status.Path, version)
				}
			}
			fmt.Fprintf(out, "  %s %s: %s\n", SuccessStyle.Render("✓"), status.Name, detail)
		case status.Found:
			fmt.Fprintf(out, "  %s %s: %s\n", SuccessStyle.Render("✓"), status.Name, status.Path)
		case status.Required:
			fmt.Fprintf(out, "  %s %s not found (REQUIRED)\n", ErrorStyle.Render("✗"), status.Label())
			missingRequired = append(missingRequired, status)
		default:
			fmt.Fprintf(out, "  %s %s not found (optional)\n", SubtitleStyle.Render("-"), status.Label())
		}
	}

	if len(missingRequired) == 0 {
		return nil
	}

	for _, status := range missingRequired {
		if status.InstallHint != "" {
			fmt.Fprintf(out, "\nInstall %s with: %s\n", status.Name, CmdStyle.Render(status.InstallHint))
		}
	}
	if verbose {
		if guidance := renderIssue(issue.DependencyMissingId); guidance != "" {
			fmt.Fprintln(out, guidance)
		}
	}

	return &ExitError{
		Code: 1,
		Err:  fmt.Errorf("%d required tool(s) missing", len(missingRequired)),
	}
}
