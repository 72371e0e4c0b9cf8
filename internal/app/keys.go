package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/nhath/litequery/internal/config"
)

// Keys holds the configured bindings.
type Keys struct {
	Quit        key.Binding
	Interrupt   key.Binding
	Back        key.Binding
	Help        key.Binding
	Select      key.Binding
	NextPanel   key.Binding
	PrevPanel   key.Binding
	OpenBrowser key.Binding
	OpenConfig  key.Binding
	Disconnect  key.Binding
	Rerun       key.Binding
	Execute     key.Binding
	RecallPrev  key.Binding
	RecallNext  key.Binding
	ClearDraft  key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	Parent      key.Binding
	CopyCell    key.Binding
	CopyRow     key.Binding
	Toggle      key.Binding
	Save        key.Binding
	ExportCSV   key.Binding
	ExportJSON  key.Binding
}

func bind(keys []string, desc string) key.Binding {
	// the terminal reports the space bar as " "
	match := make([]string, len(keys))
	for i, k := range keys {
		if k == "space" {
			k = " "
		}
		match[i] = k
	}
	return key.NewBinding(
		key.WithKeys(match...),
		key.WithHelp(strings.Join(keys, "/"), desc),
	)
}

// NewKeys builds bindings from the configured key map.
func NewKeys(km config.KeyMap) Keys {
	return Keys{
		Quit:        bind(km.Quit, "quit"),
		Interrupt:   bind([]string{"ctrl+c"}, "quit"),
		Back:        bind(km.Back, "back"),
		Help:        bind(km.Help, "help"),
		Select:      bind(km.Select, "open"),
		NextPanel:   bind(km.NextPanel, "next panel"),
		PrevPanel:   bind(km.PrevPanel, "prev panel"),
		OpenBrowser: bind(km.OpenBrowser, "open file"),
		OpenConfig:  bind(km.OpenConfig, "settings"),
		Disconnect:  bind(km.Disconnect, "disconnect"),
		Rerun:       bind(km.Rerun, "re-run"),
		Execute:     bind(km.Execute, "execute"),
		RecallPrev:  bind(km.RecallPrev, "older query"),
		RecallNext:  bind(km.RecallNext, "newer query"),
		ClearDraft:  bind(km.ClearDraft, "clear"),
		Up:          bind(km.Up, "up"),
		Down:        bind(km.Down, "down"),
		Left:        bind(km.Left, "left"),
		Right:       bind(km.Right, "right"),
		NextPage:    bind(km.NextPage, "next page"),
		PrevPage:    bind(km.PrevPage, "prev page"),
		Parent:      bind(km.Parent, "parent dir"),
		CopyCell:    bind(km.CopyCell, "copy cell"),
		CopyRow:     bind(km.CopyRow, "copy row"),
		Toggle:      bind(km.Toggle, "toggle"),
		Save:        bind(km.Save, "save"),
		ExportCSV:   bind(km.ExportCSV, "save csv"),
		ExportJSON:  bind(km.ExportJSON, "save json"),
	}
}

// DefaultKeys uses the default key map.
func DefaultKeys() Keys { return NewKeys(config.DefaultConfig().Keys) }

// modeHelp adapts the bindings relevant to one mode to help.KeyMap.
type modeHelp struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h modeHelp) ShortHelp() []key.Binding  { return h.short }
func (h modeHelp) FullHelp() [][]key.Binding { return h.full }

// HelpFor returns the bindings shown in the help bar of mode.
func (k Keys) HelpFor(mode Mode) help.KeyMap {
	switch mode {
	case ModeHome:
		return modeHelp{
			short: []key.Binding{k.NextPanel, k.Select, k.OpenBrowser, k.Rerun, k.Help, k.Quit},
			full: [][]key.Binding{
				{k.NextPanel, k.PrevPanel, k.Select},
				{k.OpenBrowser, k.OpenConfig, k.Disconnect, k.Rerun},
				{k.Help, k.Quit},
			},
		}
	case ModeEditQuery:
		return modeHelp{
			short: []key.Binding{k.Execute, k.RecallPrev, k.RecallNext, k.Back},
			full: [][]key.Binding{
				{k.Execute, k.ClearDraft},
				{k.RecallPrev, k.RecallNext},
				{k.Back, k.Interrupt},
			},
		}
	case ModeBrowseFiles:
		return modeHelp{
			short: []key.Binding{k.Up, k.Down, k.Select, k.Parent, k.Back},
			full: [][]key.Binding{
				{k.Up, k.Down, k.NextPage, k.PrevPage},
				{k.Select, k.Parent},
				{k.Back, k.Help, k.Quit},
			},
		}
	case ModeExploreResults:
		return modeHelp{
			short: []key.Binding{k.Up, k.Down, k.Left, k.Right, k.CopyCell, k.CopyRow, k.ExportCSV, k.Back},
			full: [][]key.Binding{
				{k.Up, k.Down, k.Left, k.Right},
				{k.NextPage, k.PrevPage},
				{k.CopyCell, k.CopyRow, k.Rerun},
				{k.ExportCSV, k.ExportJSON},
				{k.Back, k.Help, k.Quit},
			},
		}
	case ModeExploreConnection:
		return modeHelp{
			short: []key.Binding{k.Up, k.Down, k.Select, k.Disconnect, k.Back},
			full: [][]key.Binding{
				{k.Up, k.Down, k.Select},
				{k.Disconnect},
				{k.Back, k.Help, k.Quit},
			},
		}
	case ModeConfigEditor:
		return modeHelp{
			short: []key.Binding{k.Up, k.Down, k.Toggle, k.Save, k.Back},
			full: [][]key.Binding{
				{k.Up, k.Down, k.Toggle},
				{k.Save},
				{k.Back, k.Help, k.Quit},
			},
		}
	}
	return modeHelp{}
}
