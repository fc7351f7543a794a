// Package importer turns uploaded JSON or plain text content into candidate video entries.
//
// Parsers only validate: they never deduplicate and never touch the library.
// The same input always yields the same batch.
package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vidshelf/vidshelf/constant"
	"github.com/vidshelf/vidshelf/filesystem"
	"github.com/vidshelf/vidshelf/video"
)

var (
	ErrMalformedJSON     = errors.New("malformed json: expected an array of videos")
	ErrUnsupportedFormat = errors.New("unsupported import format")
	ErrNoValidEntries    = errors.New("no valid videos found")
)

// Batch is the outcome of parsing one import source.
type Batch struct {
	Entries []video.Entry

	// Rejected counts records that were present but unusable.
	Rejected int
}

// Record is one element of a JSON import document.
type Record struct {
	Name string `json:"name,omitempty" jsonschema:"title=Name,description=Display name. Defaults to \"Untitled Video\" when missing"`
	URL  string `json:"url" jsonschema:"title=URL,description=Address of the video,minLength=1"`
}

// ParseJSON parses an array of {name, url} objects. Elements without a non-empty
// string url are rejected; elements without a name are called "Untitled Video".
func ParseJSON(text string) (Batch, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return Batch{}, ErrMalformedJSON
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return Batch{}, fmt.Errorf("%w: %s", ErrMalformedJSON, err)
	}

	var batch Batch
	for _, item := range items {
		var fields map[string]any
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			batch.Rejected++
			continue
		}

		rawURL, _ := fields["url"].(string)
		rawURL = strings.TrimSpace(rawURL)
		if rawURL == "" {
			batch.Rejected++
			continue
		}

		name, _ := fields["name"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			name = constant.UntitledVideo
		}

		batch.Entries = append(batch.Entries, video.Entry{Name: name, URL: rawURL})
	}

	if len(batch.Entries) == 0 {
		return batch, ErrNoValidEntries
	}
	return batch, nil
}

// ParseText parses one record per line, each either "name,url" or a bare url.
// Lines whose url fails validation are dropped.
func ParseText(text string) (Batch, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var batch Batch
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			batch.Rejected++
			continue
		}
		batch.Entries = append(batch.Entries, entry)
	}

	if len(batch.Entries) == 0 {
		return batch, ErrNoValidEntries
	}
	return batch, nil
}

// parseLine reads "name,url" when the line has a comma and a bare url otherwise.
// The url is everything after the first comma.
func parseLine(line string) (video.Entry, error) {
	if name, rest, found := strings.Cut(line, ","); found {
		return video.BuildEntry(name, strings.TrimSpace(rest))
	}
	return video.BuildEntry("", line)
}

// Parse dispatches content to the parser matching the filename extension.
func Parse(filename string, content []byte) (Batch, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return ParseJSON(string(content))
	case ".txt":
		return ParseText(string(content))
	default:
		return Batch{}, fmt.Errorf("%w: %q (expected .json or .txt)", ErrUnsupportedFormat, filepath.Base(filename))
	}
}

// ParseFile reads path through the filesystem backend and parses it.
func ParseFile(path string) (Batch, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".txt":
	default:
		return Batch{}, fmt.Errorf("%w: %q (expected .json or .txt)", ErrUnsupportedFormat, filepath.Base(path))
	}

	content, err := filesystem.API().ReadFile(path)
	if err != nil {
		return Batch{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, content)
}
