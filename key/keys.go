// Package key defines the canonical set of configuration identifiers.
package key

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern command output.
const (
	CliColored   = "cli.colored"
	IconsVariant = "icons.variant"
)

// Media Playback - these keys configure the external player.
const (
	PlayerBinary       = "player.binary"
	PlayerVolume       = "player.volume"
	PlayerMuted        = "player.muted"
	PlayerResumePrompt = "player.resume_prompt"
)

// Library - these keys shape how the video library is listed and searched.
const (
	LibrarySort              = "library.sort"
	LibraryShowURLs          = "library.show_urls"
	LibrarySearchSuggestions = "library.search_suggestions"
)
