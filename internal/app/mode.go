package app

import "fmt"

// Mode is the tag of the state machine.
type Mode int

const (
	ModeHome Mode = iota
	ModeEditQuery
	ModeBrowseFiles
	ModeExploreResults
	ModeExploreConnection
	ModeConfigEditor
	ModeQuit
)

var modeNames = [...]string{
	ModeHome:              "home",
	ModeEditQuery:         "edit-query",
	ModeBrowseFiles:       "browse-files",
	ModeExploreResults:    "explore-results",
	ModeExploreConnection: "explore-connection",
	ModeConfigEditor:      "config-editor",
	ModeQuit:              "quit",
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Modes lists every mode in declaration order.
func Modes() []Mode {
	return []Mode{ModeHome, ModeEditQuery, ModeBrowseFiles, ModeExploreResults, ModeExploreConnection, ModeConfigEditor, ModeQuit}
}

// Panel is the Home screen focus.
type Panel int

const (
	PanelNone Panel = iota
	PanelConnection
	PanelResults
	PanelQuery
)

func (p Panel) String() string {
	switch p {
	case PanelNone:
		return "none"
	case PanelConnection:
		return "connection"
	case PanelResults:
		return "results"
	case PanelQuery:
		return "query"
	}
	return fmt.Sprintf("Panel(%d)", int(p))
}

// next cycles Connection -> Results -> Query -> Connection. From no focus
// it starts at Connection.
func (p Panel) next() Panel {
	switch p {
	case PanelConnection:
		return PanelResults
	case PanelResults:
		return PanelQuery
	default:
		return PanelConnection
	}
}

func (p Panel) prev() Panel {
	switch p {
	case PanelConnection:
		return PanelQuery
	case PanelQuery:
		return PanelResults
	default:
		return PanelConnection
	}
}
