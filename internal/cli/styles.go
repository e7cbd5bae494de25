package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// colors is the palette for human-readable command output.
var colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"), // Purple
	Muted:   lipgloss.Color("#636E72"), // Gray
	Success: lipgloss.Color("#00B894"), // Green
	Warning: lipgloss.Color("#FDCB6E"), // Yellow
}

// styles holds the lipgloss styles bound to one output writer.
type styles struct {
	Header lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Flag   lipgloss.Style
	Muted  lipgloss.Style
	Warn   lipgloss.Style
}

// newStyles creates styles for w. Colors are dropped automatically when w
// is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		Header: r.NewStyle().Bold(true).Foreground(colors.Primary),
		Label:  r.NewStyle().Foreground(colors.Muted).Width(14),
		Value:  r.NewStyle(),
		Flag:   r.NewStyle().Foreground(colors.Success),
		Muted:  r.NewStyle().Foreground(colors.Muted),
		Warn:   r.NewStyle().Foreground(colors.Warning),
	}
}
