// SPDX-License-Identifier: MPL-2.0

// Package deps verifies that required external tools are resolvable on the
// host PATH before any work that shells out to them is attempted.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// LookupFunc resolves a bare executable name to a runnable path.
// It matches the signature of exec.LookPath so the real lookup can be
// swapped for a fake in tests.
type LookupFunc func(name string) (string, error)

// Requirement describes one external tool dependency. Alternatives are
// tried in order with OR semantics: any resolvable alternative satisfies
// the requirement.
type Requirement struct {
	// Name is the canonical tool name shown to the user.
	Name string
	// Alternatives are executable names to try, in order. When empty,
	// Name itself is the only candidate.
	Alternatives []string
	// Required marks the tool as mandatory. Optional tools only affect
	// the doctor report, never the exit status.
	Required bool
	// InstallHint is a ready-to-paste install command for the error message.
	InstallHint string
}

// Status is the outcome of checking a single Requirement.
type Status struct {
	Requirement
	// Path is the resolved executable path when Found is true.
	Path string
	// Found reports whether any alternative resolved.
	Found bool
}

// MissingError is returned when a required tool cannot be resolved.
type MissingError struct {
	Name        string
	InstallHint string
}

func (e *MissingError) Error() string {
	msg := fmt.Sprintf("required tool '%s' not found in PATH", e.Name)
	if e.InstallHint != "" {
		msg += ". Install it with: " + e.InstallHint
	}
	return msg
}

// Checker resolves tool requirements against an injectable lookup.
type Checker struct {
	lookup LookupFunc
}

// NewChecker returns a Checker backed by the given lookup.
// A nil lookup defaults to exec.LookPath.
func NewChecker(lookup LookupFunc) *Checker {
	if lookup == nil {
		lookup = exec.LookPath
	}
	return &Checker{lookup: lookup}
}

// Resolve returns the path of the first resolvable alternative of req.
// The lookup has no side effects, so repeated calls with an unchanged
// environment return the same result.
func (c *Checker) Resolve(req Requirement) (string, bool) {
	for _, alt := range req.candidates() {
		if path, err := c.lookup(alt); err == nil {
			return path, true
		}
	}
	return "", false
}

// Verify returns nil when req is satisfied, and a *MissingError when a
// required tool is absent. Optional tools never produce an error.
func (c *Checker) Verify(req Requirement) error {
	if _, ok := c.Resolve(req); ok {
		return nil
	}
	if !req.Required {
		return nil
	}
	return &MissingError{Name: req.Name, InstallHint: req.InstallHint}
}

// Report checks every requirement and returns one Status per entry,
// preserving input order.
func (c *Checker) Report(reqs []Requirement) []Status {
	statuses := make([]Status, 0, len(reqs))
	for _, req := range reqs {
		path, found := c.Resolve(req)
		statuses = append(statuses, Status{Requirement: req, Path: path, Found: found})
	}
	return statuses
}

func (r Requirement) candidates() []string {
	if len(r.Alternatives) > 0 {
		return r.Alternatives
	}
	return []string{r.Name}
}

// Label renders the alternatives list for user-facing messages,
// e.g. "yt-dlp" or "one of [yt-dlp, youtube-dl]".
func (r Requirement) Label() string {
	cands := r.candidates()
	if len(cands) == 1 {
		return cands[0]
	}
	return "one of [" + strings.Join(cands, ", ") + "]"
}
