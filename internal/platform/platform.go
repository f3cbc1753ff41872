// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
package platform

import "runtime"

// Windows is the GOOS value for Windows hosts.
const Windows = "windows"

// IsWindows reports whether the current host is running Windows.
// The grabber disables the page-fetch retry on Windows because the
// original tooling had no equivalent fallback there.
func IsWindows() bool {
	return runtime.GOOS == Windows
}
