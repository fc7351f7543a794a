package video

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/vidshelf/vidshelf/constant"
)

// ErrInvalidURL is returned when a URL fails validation.
var ErrInvalidURL = errors.New("invalid url")

var (
	schemePattern    = regexp.MustCompile(`(?i)^(https?|rtmp|rtsp)://[^\s/]\S*$`)
	extensionPattern = regexp.MustCompile(`(?i)\.(mp4|webm|mov|avi|mkv|flv)$`)
	separatorPattern = regexp.MustCompile(`[-_]`)

	streamingSchemes = map[string]bool{"http": true, "https": true, "rtmp": true, "rtsp": true}
)

// IsValidURL accepts raw when it parses as an absolute URI, or when it is an
// http, https, rtmp or rtsp address with a non-blank body. Those four schemes
// always need a host.
func IsValidURL(raw string) bool {
	if raw == "" {
		return false
	}

	if u, err := url.Parse(raw); err == nil && u.IsAbs() && len(raw) > len(u.Scheme)+1 {
		return !streamingSchemes[strings.ToLower(u.Scheme)] || u.Host != ""
	}

	return schemePattern.MatchString(raw)
}

// DeriveName builds a human readable name from the last path segment of rawURL.
func DeriveName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		parts := strings.Split(rawURL, "/")
		return cleanSegment(parts[len(parts)-1])
	}

	segments := lo.Filter(strings.Split(u.EscapedPath(), "/"), func(s string, _ int) bool {
		return s != ""
	})
	if len(segments) == 0 {
		return constant.FallbackName
	}

	last := segments[len(segments)-1]
	if decoded, err := url.PathUnescape(last); err == nil {
		last = decoded
	}
	return cleanSegment(last)
}

func cleanSegment(segment string) string {
	name := extensionPattern.ReplaceAllString(segment, "")
	name = strings.TrimSpace(separatorPattern.ReplaceAllString(name, " "))
	if name == "" {
		return constant.FallbackName
	}
	return name
}

// BuildEntry validates rawURL and pairs it with name, deriving the name from the
// URL when it is blank.
func BuildEntry(name, rawURL string) (Entry, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !IsValidURL(rawURL) {
		return Entry{}, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DeriveName(rawURL)
	}

	return Entry{Name: name, URL: rawURL}, nil
}
