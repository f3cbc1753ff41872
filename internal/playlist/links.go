// SPDX-License-Identifier: MPL-2.0

package playlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const (
	// DefaultCategory is used when a link line carries no category field.
	DefaultCategory = "General"
	// DefaultTitle is used when a link line carries no name field.
	DefaultTitle = "Stream"
)

// Source is one unresolved input entry: a page URL plus the metadata the
// resolved playlist entry should carry.
type Source struct {
	URL      string
	Title    string
	Category string
	TvgID    string
	TvgLogo  string
}

// ParseLinkLine parses one `URL|Category|Name` line. Category and Name are
// optional and fall back to defaults; surrounding whitespace is trimmed.
func ParseLinkLine(line string) Source {
	parts := strings.Split(line, "|")

	src := Source{
		URL:      strings.TrimSpace(parts[0]),
		Category: DefaultCategory,
		Title:    DefaultTitle,
	}
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		src.Category = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		src.Title = strings.TrimSpace(parts[2])
	}
	src.TvgID = TvgIDFor(src.Title)
	return src
}

// LoadLinks reads a pipe-delimited link list. Blank lines are skipped.
// An empty list is an error: there is nothing to extract.
func LoadLinks(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open link list %s: %w", path, err)
	}
	defer f.Close()

	var sources []Source
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sources = append(sources, ParseLinkLine(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read link list %s: %w", path, err)
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("link list %s is empty", path)
	}

	return sources, nil
}
