package constant

// Naming fallbacks applied by the normalizer and the import parsers.
const (
	UntitledVideo = "Untitled Video"
	FallbackName  = "Video"
)

// Playback progress policy. Percentages are exclusive bounds.
const (
	ProgressMinPercent = 5.0
	ProgressMaxPercent = 95.0

	// ResumeThresholdSeconds is the saved position past which a resume prompt is offered.
	ResumeThresholdSeconds = 30.0

	// ProgressSaveIntervalSeconds bounds periodic progress writes, measured in media time.
	ProgressSaveIntervalSeconds = 5.0
)

// RecentlyPlayedLimit caps the recently-played list.
const RecentlyPlayedLimit = 10
