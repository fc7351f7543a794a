// Package constant defines immutable application-level identifiers and library policy values.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "vidshelf"

	// Version is the current application semantic version string.
	Version = "0.3.0"
)

// Build metadata, overridden with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
