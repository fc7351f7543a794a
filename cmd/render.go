package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/samber/mo"
	"github.com/vidshelf/vidshelf/color"
	"github.com/vidshelf/vidshelf/icon"
	"github.com/vidshelf/vidshelf/progress"
	"github.com/vidshelf/vidshelf/style"
	"github.com/vidshelf/vidshelf/util"
	"github.com/vidshelf/vidshelf/video"
)

const barWidth = 12

func fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

// entryLines renders a library entry as one or two lines.
func entryLines(entry video.Entry, record mo.Option[progress.Record], indent string, showURL bool, width int) []string {
	name := style.Bold(entry.Name)
	if entry.IsLocalFile {
		name += " " + style.Tag(color.Text, color.Faint)("local")
	}

	if r, ok := record.Get(); ok {
		name += fmt.Sprintf(" %s %s",
			style.ProgressBar(r.ProgressPercent, barWidth),
			style.Faint(fmt.Sprintf("%s / %s", util.FormatSeconds(r.CurrentTime), util.FormatSeconds(r.Duration))),
		)
	}

	lines := []string{fit(indent+style.Fg(color.Accent)(icon.Get(icon.Video))+" "+name, width)}
	if showURL {
		lines = append(lines, fit(indent+"  "+style.Faint(entry.URL), width))
	}
	return lines
}

func printJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printLines(out io.Writer, lines []string) {
	if len(lines) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out, strings.Join(lines, "\n"))
}
