package ui

import (
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/nhath/litequery/internal/app"
	"github.com/nhath/litequery/internal/ui/components/popup"
)

func (r *Renderer) renderHelpBar(v app.View) string {
	if v.Keys == nil {
		return ""
	}
	h := r.help
	h.Width = v.Width
	h.ShowAll = false
	return h.View(v.Keys)
}

func (r *Renderer) renderHelpPopup(v app.View, main string) string {
	if v.Keys == nil {
		return main
	}
	h := r.help
	h.ShowAll = true
	h.Width = max(v.Width-8, 20)

	p := popup.Popup{
		Title:     "Keyboard shortcuts · " + v.Mode.String(),
		Content:   h.View(v.Keys),
		Footer:    "esc or ? to close",
		MaxHeight: v.Height,
		Styles:    r.popupStyles(),
	}
	return p.Centered(main)
}

// renderErrorPopup shows an error that does not fit the status bar in full,
// anchored above the bottom bars.
func (r *Renderer) renderErrorPopup(v app.View, main string, bottom int) string {
	width := min(60, v.Width-4)
	styles := r.popupStyles()
	styles.Box = ErrorPopupStyle
	styles.Header = ErrorStyle

	p := popup.Popup{
		Title:   "Error",
		Content: v.Status.Text,
		Width:   width,
		Styles:  styles,
	}
	p.Styles.Body = p.Styles.Body.Width(max(width-ErrorPopupStyle.GetHorizontalFrameSize(), 1))
	return overlay.Composite(p.View(), main, overlay.Right, overlay.Bottom, -1, -bottom)
}

func (r *Renderer) popupStyles() popup.Styles {
	s := popup.DefaultStyles()
	s.Box = PopupStyle
	s.Header = PopupTitleStyle
	s.Footer = MetaStyle
	return s
}
