// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"streamtom3u/internal/issue"
)

// formatErrorForDisplay renders an error for terminal output. Actionable
// errors include their suggestions; verbose additionally shows the chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var actionable *issue.ActionableError
	if errors.As(err, &actionable) {
		return actionable.Format(verbose)
	}
	return err.Error()
}

// renderIssue prints the glamour-rendered guidance for a known issue id.
// Rendering failures degrade to nothing: the plain error text has already
// been written by the caller.
func renderIssue(id issue.Id) string {
	found := issue.Lookup(id)
	if found == nil {
		return ""
	}
	rendered, err := found.Render("dark")
	if err != nil {
		return ""
	}
	return rendered
}
