// Package popup renders modal boxes composited over a frame.
package popup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// Styles for the popup
type Styles struct {
	Box    lipgloss.Style
	Header lipgloss.Style
	Body   lipgloss.Style
	Footer lipgloss.Style
}

// DefaultStyles returns default styling
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#81A1C1")).
			Padding(1, 2),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ECEFF4")),
		Body: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D8DEE9")),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4C566A")).
			Italic(true),
	}
}

// Popup is a titled box. Width and MaxHeight include the border; zero
// means unconstrained.
type Popup struct {
	Title     string
	Content   string
	Footer    string
	Width     int
	MaxHeight int
	Styles    Styles
}

// New returns a popup with the default styles.
func New(title, content, footer string) Popup {
	return Popup{Title: title, Content: content, Footer: footer, Styles: DefaultStyles()}
}

// View renders the box on its own.
func (p Popup) View() string {
	var b strings.Builder
	if p.Title != "" {
		b.WriteString(p.Styles.Header.Render(p.Title))
		b.WriteString("\n\n")
	}
	b.WriteString(p.Styles.Body.Render(p.Content))
	if p.Footer != "" {
		b.WriteString("\n\n")
		b.WriteString(p.Styles.Footer.Render(p.Footer))
	}

	box := p.Styles.Box
	if p.Width > 0 {
		box = box.Width(max(p.Width-box.GetHorizontalBorderSize(), 1))
	}
	if p.MaxHeight > 0 {
		box = box.MaxHeight(p.MaxHeight)
	}
	return box.Render(b.String())
}

// Over composites the box on top of main at the given anchor.
func (p Popup) Over(main string, x, y overlay.Position) string {
	return overlay.Composite(p.View(), main, x, y, 0, 0)
}

// Centered composites the box in the middle of main.
func (p Popup) Centered(main string) string {
	return p.Over(main, overlay.Center, overlay.Center)
}
