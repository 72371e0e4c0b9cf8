package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/nhath/litequery/internal/app"
	"github.com/nhath/litequery/internal/ui/icons"
)

func connectionLabel(c *app.Connection) string {
	return fmt.Sprintf("%s %s (%s)", icons.DatabaseIcon(c.Kind), c.Target, c.Kind)
}

// spinnerFrame advances one frame per tick while work is in flight.
func spinnerFrame(frame int) string {
	frames := spinner.Dot.Frames
	return frames[frame%len(frames)]
}

// statusPrefix renders everything left of the status text.
func statusPrefix(v app.View) string {
	var parts []string

	modeStyle := ModeStyle
	if v.Mode == app.ModeEditQuery {
		modeStyle = EditModeStyle
	}
	parts = append(parts, modeStyle.Render(strings.ToUpper(v.Mode.String())))

	if v.Conn != nil {
		parts = append(parts, ConnectionStyle.Render(string(v.Conn.Kind)))
	} else {
		parts = append(parts, ConnectionStyle.Render("NOT CONNECTED"))
	}

	if v.Busy {
		parts = append(parts, SpinnerStyle.Render(spinnerFrame(v.Frame)+" working"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// statusRoom is the number of cells left for the status badge text.
func statusRoom(v app.View) int {
	// the badge carries one cell of padding on each side
	return v.Width - lipgloss.Width(statusPrefix(v)) - 2
}

// statusOverflows reports whether the icon, a space and the text do not
// fit in the status bar.
func statusOverflows(v app.View) bool {
	return runewidth.StringWidth(v.Status.Text)+2 > statusRoom(v)
}

func (r *Renderer) renderStatusBar(v app.View) string {
	content := statusPrefix(v)

	if text := v.Status.Text; text != "" {
		room := statusRoom(v)
		if v.Status.IsError {
			content += ErrorBadgeStyle.Render(truncate(icons.IconError+" "+text, room))
		} else {
			content += InfoBadgeStyle.Render(truncate(icons.IconSuccess+" "+text, room))
		}
	}

	content = lipgloss.NewStyle().MaxWidth(v.Width).Render(content)
	return StatusBarStyle.Width(v.Width).Render(content)
}
