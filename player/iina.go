package player

// NewIINA returns a player driving IINA through iina-cli. IINA embeds mpv and
// forwards options prefixed with --mpv-, so the same IPC socket drives it.
func NewIINA(binary string) *MPV {
	if binary == "" {
		binary = "iina-cli"
	}
	return &MPV{
		launcher: launcher{
			binary:       binary,
			optionPrefix: "--mpv-",
			base:         []string{"--no-stdin", "--mpv-idle=yes", "--mpv-force-window=yes"},
		},
		exited: make(chan struct{}),
	}
}
