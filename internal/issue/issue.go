// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	DependencyMissingId Id = iota + 1
	ConfigLoadFailedId
	InputNotFoundId
	ExtractorFailedId
	PageFetchFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.extLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	dependencyMissingIssue = &Issue{
		id: DependencyMissingId,
		mdMsg: `
# yt-dlp is not installed!

streamtom3u shells out to yt-dlp to resolve stream URLs, and it could not be
found on your PATH.

## Things you can try:
- Install it with pip:
~~~
$ pip install -U yt-dlp
~~~
- Or with your system package manager:
~~~
$ sudo apt install yt-dlp
~~~
- If it is installed somewhere unusual, point the config at it:
~~~cue
ytdlp_path: "/opt/yt-dlp/yt-dlp"
~~~`,
		extLinks: []HttpLink{"https://github.com/yt-dlp/yt-dlp#installation"},
	}

	inputNotFoundIssue = &Issue{
		id: InputNotFoundId,
		mdMsg: `
# No input file found!

We looked for a link list but couldn't find one at the expected path.

## Things you can try:
- Create a links file in the current directory, one entry per line:
~~~
https://www.youtube.com/watch?v=xxxx|News|My Channel
~~~
- Or point at an existing one:
~~~
$ streamtom3u extract --input /path/to/links.txt
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded!

The config file exists but could not be parsed or validated.

## Things you can try:
- Check the file for CUE syntax errors
- Regenerate a fresh starter config:
~~~
$ streamtom3u config init
~~~`,
	}

	extractorFailedIssue = &Issue{
		id: ExtractorFailedId,
		mdMsg: `
# The stream extractor failed!

The extractor ran but did not complete successfully.

## Things you can try:
- Re-run with verbose output to see per-channel resolution attempts:
~~~
$ streamtom3u run -v
~~~
- Check that yt-dlp itself works against one of your URLs:
~~~
$ yt-dlp --get-url <url>
~~~`,
	}

	pageFetchFailedIssue = &Issue{
		id: PageFetchFailedId,
		mdMsg: `
# A channel page could not be fetched!

The grabber could not download a channel page, so no .m3u8 URL was found.
The playlist entry falls back to the static placeholder stream.

## Things you can try:
- Verify the page URL opens in a browser
- Check your network connection or proxy settings`,
	}

	issues = map[Id]*Issue{
		DependencyMissingId: dependencyMissingIssue,
		ConfigLoadFailedId:  configLoadFailedIssue,
		InputNotFoundId:     inputNotFoundIssue,
		ExtractorFailedId:   extractorFailedIssue,
		PageFetchFailedId:   pageFetchFailedIssue,
	}
)

// Lookup returns the registered Issue for the given id, or nil when unknown.
func Lookup(id Id) *Issue {
	return issues[id]
}
