package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/nhath/litequery/internal/app"
	"github.com/nhath/litequery/internal/config"
	"github.com/nhath/litequery/internal/ui/highlight"
)

// Renderer turns app snapshots into frames and hands them to send.
type Renderer struct {
	send        func(frame string)
	syntaxStyle string
	help        help.Model
}

// NewRenderer initialises the styles from theme. send receives every frame;
// it may be nil when only Frame is used.
func NewRenderer(theme config.Theme, send func(frame string)) *Renderer {
	InitStyles(theme)

	h := help.New()
	h.Styles.ShortKey = HelpKeyStyle
	h.Styles.ShortDesc = HelpDescStyle
	h.Styles.ShortSeparator = HelpSeparatorStyle
	h.Styles.FullKey = HelpKeyStyle
	h.Styles.FullDesc = HelpDescStyle
	h.Styles.FullSeparator = HelpSeparatorStyle
	h.Styles.Ellipsis = HelpSeparatorStyle

	style := theme.SyntaxStyle
	if style == "" {
		style = highlight.DefaultStyle
	}
	return &Renderer{send: send, syntaxStyle: style, help: h}
}

// Render implements app.Renderer.
func (r *Renderer) Render(v app.View) {
	if r.send != nil {
		r.send(r.Frame(v))
	}
}

// Frame lays out header, mode body, status bar and help bar, then
// composites any popup on top.
func (r *Renderer) Frame(v app.View) string {
	if v.Width == 0 || v.Height == 0 {
		return "Loading..."
	}

	header := r.renderHeader(v)
	status := r.renderStatusBar(v)
	parts := []string{header, "", status}
	chrome := lipgloss.Height(header) + lipgloss.Height(status)
	if v.ShowHelpBar {
		bar := r.renderHelpBar(v)
		parts = append(parts, bar)
		chrome += lipgloss.Height(bar)
	}

	bodyHeight := max(v.Height-chrome, 1)
	body := r.renderBody(v, v.Width, bodyHeight)
	parts[1] = lipgloss.NewStyle().
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		MaxWidth(v.Width).
		Render(body)

	main := lipgloss.JoinVertical(lipgloss.Left, parts...)

	switch {
	case v.Help:
		main = r.renderHelpPopup(v, main)
	case v.Status.IsError && statusOverflows(v):
		main = r.renderErrorPopup(v, main, chrome-lipgloss.Height(header))
	}
	return main
}

func (r *Renderer) renderBody(v app.View, width, height int) string {
	switch v.Mode {
	case app.ModeHome:
		return r.renderHome(v, width, height)
	case app.ModeEditQuery:
		return r.renderEditor(v, width, height)
	case app.ModeBrowseFiles:
		return r.renderBrowser(v, width, height)
	case app.ModeExploreResults:
		return r.renderResults(v, width, height)
	case app.ModeExploreConnection:
		return r.renderExplorer(v, width, height)
	case app.ModeConfigEditor:
		return r.renderSettings(v, width, height)
	}
	return ""
}

func (r *Renderer) renderHeader(v app.View) string {
	title := TitleStyle.Render("litequery")
	mode := MetaStyle.Render(v.Mode.String())
	line := title + HelpSeparatorStyle.Render(" · ") + mode
	if v.Conn != nil {
		line += HelpSeparatorStyle.Render(" · ") + ItemStyle.Render(connectionLabel(v.Conn))
	}
	return lipgloss.NewStyle().MaxWidth(v.Width).Render(line)
}

// truncate shortens s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// truncateLeft keeps the tail of s, which is the useful part of a path.
func truncateLeft(s string, width int) string {
	w := runewidth.StringWidth(s)
	if width <= 0 {
		return ""
	}
	if w <= width {
		return s
	}
	return "…" + runewidth.TruncateLeft(s, w-width+1, "")
}

// window returns the [lo, hi) slice of n items of at most size that keeps
// cursor visible.
func window(n, cursor, size int) (int, int) {
	if size <= 0 || n <= size {
		return 0, n
	}
	lo := min(max(cursor-size/2, 0), n-size)
	return lo, lo + size
}
