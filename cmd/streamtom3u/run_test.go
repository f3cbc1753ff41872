// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"streamtom3u/internal/config"
	"streamtom3u/internal/deps"
)

// fakeLookup resolves only the given executable names.
func fakeLookup(present ...string) deps.LookupFunc {
	set := make(map[string]bool, len(present))
	for _, name := range present {
		set[name] = true
	}
	return func(name string) (string, error) {
		if set[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("executable file not found in $PATH")
	}
}

type launchRecorder struct {
	external int
	builtin  int
	argv     []string
	err      error
}

func newTestLauncher(cfg *config.Config, lookup deps.LookupFunc, rec *launchRecorder) (*launcher, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	l := &launcher{
		stdout:  stdout,
		cfg:     cfg,
		checker: deps.NewChecker(lookup),
		launchExternal: func(_ context.Context, argv []string) error {
			rec.external++
			rec.argv = argv
			return rec.err
		},
		runBuiltin: func(_ context.Context) error {
			rec.builtin++
			return rec.err
		},
	}
	return l, stdout
}

func TestRun_MissingDependency(t *testing.T) {
	rec := &launchRecorder{}
	l, stdout := newTestLauncher(config.DefaultConfig(), fakeLookup(), rec)

	err := l.run(context.Background())
	if err == nil {
		t.Fatal("run() should fail when yt-dlp is missing")
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("run() should return *ExitError, got %T", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("ExitError.Code = %d, want 1", exitErr.Code)
	}

	var missing *deps.MissingError
	if !errors.As(err, &missing) {
		t.Error("run() error should wrap *deps.MissingError")
	}

	// Both the progress message and the error text belong on stdout,
	// matching the historical launcher output.
	if !strings.Contains(stdout.String(), msgChecking) {
		t.Errorf("stdout should contain the checking message, got:\n%s", stdout.String())
	}
	if !strings.Contains(stdout.String(), msgNotInstalled) {
		t.Errorf("stdout should contain the install hint, got:\n%s", stdout.String())
	}
	if rec.external != 0 || rec.builtin != 0 {
		t.Errorf("extractor invoked (external=%d builtin=%d), want never", rec.external, rec.builtin)
	}
}

func TestRun_DependencyPresent_Builtin(t *testing.T) {
	rec := &launchRecorder{}
	l, stdout := newTestLauncher(config.DefaultConfig(), fakeLookup("yt-dlp"), rec)

	if err := l.run(context.Background()); err != nil {
		t.Fatalf("run() failed: %v", err)
	}

	out := stdout.String()
	checkingIdx := strings.Index(out, msgChecking)
	launchingIdx := strings.Index(out, msgFound)
	if checkingIdx == -1 || launchingIdx == -1 {
		t.Fatalf("stdout missing status messages:\n%s", out)
	}
	if checkingIdx > launchingIdx {
		t.Error("checking message must precede the launching message")
	}
	if rec.builtin != 1 {
		t.Errorf("builtin pipeline invoked %d times, want 1", rec.builtin)
	}
	if rec.external != 0 {
		t.Errorf("external extractor invoked %d times, want 0", rec.external)
	}
}

func TestRun_ExternalExtractorCommand(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ExtractorCommand = `python3 "stream extractor.py"`

	rec := &launchRecorder{}
	l, _ := newTestLauncher(cfg, fakeLookup("yt-dlp"), rec)

	if err := l.run(context.Background()); err != nil {
		t.Fatalf("run() failed: %v", err)
	}
	if rec.external != 1 {
		t.Fatalf("external extractor invoked %d times, want 1", rec.external)
	}
	// shell.Fields must honor the quoting.
	if len(rec.argv) != 2 || rec.argv[0] != "python3" || rec.argv[1] != "stream extractor.py" {
		t.Errorf("argv = %v, want quoted token preserved", rec.argv)
	}
}

func TestRun_ForwardsChildExitCode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ExtractorCommand = "false"

	rec := &launchRecorder{err: &ExitError{Code: 3}}
	l, _ := newTestLauncher(cfg, fakeLookup("yt-dlp"), rec)

	err := l.run(context.Background())
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("run() should forward the child ExitError, got %T", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("ExitError.Code = %d, want forwarded 3", exitErr.Code)
	}
}

func TestRun_CheckIsIdempotent(t *testing.T) {
	rec := &launchRecorder{}
	l, _ := newTestLauncher(config.DefaultConfig(), fakeLookup("yt-dlp"), rec)

	req := ytdlpRequirement("")
	_, first := l.checker.Resolve(req)
	_, second := l.checker.Resolve(req)
	if first != second {
		t.Errorf("dependency check not idempotent: first=%v second=%v", first, second)
	}
}

func TestRun_YtdlpPathOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.YtdlpPath = "/opt/yt-dlp/yt-dlp"

	rec := &launchRecorder{}
	l, _ := newTestLauncher(cfg, fakeLookup("/opt/yt-dlp/yt-dlp"), rec)

	if err := l.run(context.Background()); err != nil {
		t.Fatalf("run() should honor the ytdlp_path override, got: %v", err)
	}
}

func TestYtdlpRequirement(t *testing.T) {
	req := ytdlpRequirement("")
	if req.Alternatives[0] != "yt-dlp" {
		t.Errorf("default candidate = %q, want yt-dlp", req.Alternatives[0])
	}
	if !req.Required {
		t.Error("yt-dlp must be a required tool")
	}

	req = ytdlpRequirement("/custom/yt-dlp")
	if req.Alternatives[0] != "/custom/yt-dlp" {
		t.Errorf("override candidate = %q", req.Alternatives[0])
	}
}
