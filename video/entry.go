// Package video defines the library's video entry and the rules that turn raw
// user input into one: URL validation, name derivation and entry construction.
package video

import "fmt"

// Entry is a single video reference. URL is its identity; it is compared exactly
// and never changes once the entry is created.
type Entry struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	IsLocalFile bool   `json:"isLocalFile"`

	// OriginalType is the MIME type of a local file. It is runtime-only and not persisted.
	OriginalType string `json:"-"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.URL)
}

// Same reports whether e and other share an identity.
func (e Entry) Same(other Entry) bool {
	return e.URL == other.URL
}
