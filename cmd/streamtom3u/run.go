// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"streamtom3u/internal/config"
	"streamtom3u/internal/deps"
	"streamtom3u/internal/issue"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/shell"
)

// User-facing launcher messages. The wording is part of the observable
// behavior: automation greps for these.
const (
	msgChecking     = "Checking for yt-dlp..."
	msgFound        = "yt-dlp found. Launching stream extractor..."
	msgNotInstalled = "yt-dlp is not installed. Install it with: pip install -U yt-dlp"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Check for yt-dlp, then launch the stream extractor",
	Long: `Verifies that yt-dlp is resolvable on PATH and then launches the
stream extractor: the built-in extraction pipeline, or the external
command configured as extractor_command. The extractor's exit code
becomes this command's exit code.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		l := newLauncher(loadedConfig())
		return l.run(cmd.Context())
	},
}

// launcher gates extractor execution on the yt-dlp dependency check.
// All collaborators are injectable so tests can simulate present/absent
// tools and count extractor invocations.
type launcher struct {
	stdout  io.Writer
	cfg     *config.Config
	checker *deps.Checker

	// launchExternal spawns argv as a child process with inherited stdio
	// and waits for it.
	launchExternal func(ctx context.Context, argv []string) error
	// runBuiltin runs the in-process extraction pipeline.
	runBuiltin func(ctx context.Context) error
}

func newLauncher(cfg *config.Config) *launcher {
	l := &launcher{
		stdout:         os.Stdout,
		cfg:            cfg,
		checker:        deps.NewChecker(nil),
		launchExternal: launchChildProcess,
	}
	l.runBuiltin = func(ctx context.Context) error {
		return runExtraction(ctx, cfg, extractOptions{}, l.stdout)
	}
	return l
}

// run performs the launcher sequence: announce the check, verify yt-dlp,
// and either fail fast with exit status 1 or launch the extractor and
// forward its exit code.
func (l *launcher) run(ctx context.Context) error {
	fmt.Fprintln(l.stdout, SubtitleStyle.Render(msgChecking))

	req := ytdlpRequirement(l.cfg.YtdlpPath)
	if err := l.checker.Verify(req); err != nil {
		// All launcher status text goes to stdout, the error included:
		// scripts around the historical launcher grep stdout for it.
		fmt.Fprintln(l.stdout, ErrorStyle.Render("Error: ")+msgNotInstalled)
		if verbose {
			if guidance := renderIssue(issue.DependencyMissingId); guidance != "" {
				fmt.Fprintln(l.stdout, guidance)
			}
		}
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintln(l.stdout, SuccessStyle.Render("✓ ")+msgFound)

	if l.cfg.ExtractorCommand != "" {
		argv, err := shell.Fields(l.cfg.ExtractorCommand, nil)
		if err != nil {
			return issue.NewErrorContext().
				WithOperation("parse extractor_command").
				WithResource(l.cfg.ExtractorCommand).
				WithSuggestion("Check the command for unbalanced quotes").
				Wrap(err).
				BuildError()
		}
		if len(argv) == 0 {
			return fmt.Errorf("extractor_command is set but empty after parsing")
		}
		return l.launchExternal(ctx, argv)
	}

	return l.runBuiltin(ctx)
}

// ytdlpRequirement builds the yt-dlp dependency requirement, honoring a
// configured binary override.
func ytdlpRequirement(ytdlpPath string) deps.Requirement {
	candidate := ytdlpPath
	if candidate == "" {
		candidate = "yt-dlp"
	}
	return deps.Requirement{
		Name:         "yt-dlp",
		Alternatives: []string{candidate},
		Required:     true,
		InstallHint:  "pip install -U yt-dlp",
	}
}

// launchChildProcess spawns argv with inherited standard streams, waits
// for it, and forwards a non-zero exit code as an ExitError.
func launchChildProcess(ctx context.Context, argv []string) error {
	child := exec.CommandContext(ctx, argv[0], argv[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	err := child.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Err: fmt.Errorf("extractor exited with code %d", exitErr.ExitCode())}
	}
	return issue.NewErrorContext().
		WithOperation("launch stream extractor").
		WithResource(argv[0]).
		WithSuggestion("Check that the configured extractor_command is executable").
		Wrap(err).
		BuildError()
}

// loadedConfig returns the configuration loaded by initRootConfig,
// falling back to defaults when command functions run outside Execute
// (as they do in tests).
func loadedConfig() *config.Config {
	if appConfig != nil {
		return appConfig
	}
	return config.DefaultConfig()
}
