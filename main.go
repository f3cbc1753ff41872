// SPDX-License-Identifier: MPL-2.0

package main

import (
	cmd "streamtom3u/cmd/streamtom3u"
)

func main() {
	cmd.Execute()
}
