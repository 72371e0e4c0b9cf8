package app

import (
	"github.com/nhath/litequery/internal/fsbrowse"
)

// Status is the one-line message shown at the bottom of the screen.
type Status struct {
	Text    string
	IsError bool
}

func infoStatus(text string) Status  { return Status{Text: text} }
func errorStatus(text string) Status { return Status{Text: text, IsError: true} }

// GridPos is the ExploreResults cursor.
type GridPos struct {
	Row, Col int
}

type browser struct {
	dir     string
	entries []fsbrowse.Entry
	cursor  int
	loading bool
}

type explorer struct {
	profiles []string
	tables   []string
	cursor   int
	loading  bool
	err      string
}

// State is the whole UI state: the mode tag, the session every mode
// carries, and the small amount of per-mode data. It is a value; Update
// returns a new one and never mutates the receiver's shared data.
type State struct {
	mode    Mode
	session Session

	focus    Panel
	grid     GridPos
	browser  browser
	explorer explorer
	setting  int

	prefs    Prefs
	status   Status
	inflight int
	frame    int
	help     bool
	width    int
	height   int

	env *Env
}

// Options seeds a new State.
type Options struct {
	Draft    string
	Executed []string
	Prefs    Prefs
	// Dir is where the file browser opens first.
	Dir string
}

// New returns the initial Home state.
func New(env *Env, opts Options) State {
	if env == nil {
		env = &Env{}
	}
	if env.Keys.Quit.Keys() == nil {
		env.Keys = DefaultKeys()
	}
	if opts.Prefs.PageSize <= 0 {
		opts.Prefs.PageSize = pageSizes[1]
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	return State{
		mode: ModeHome,
		session: Session{
			History: NewQueryHistory(opts.Draft, opts.Executed),
		},
		browser: browser{dir: dir},
		prefs:   opts.Prefs,
		env:     env,
	}
}

func (s State) Mode() Mode         { return s.mode }
func (s State) Session() Session   { return s.session }
func (s State) Focus() Panel       { return s.focus }
func (s State) Prefs() Prefs       { return s.prefs }
func (s State) Status() Status     { return s.status }
func (s State) Cursor() GridPos    { return s.grid }
func (s State) Busy() bool         { return s.inflight > 0 }
func (s State) HelpVisible() bool  { return s.help }
func (s State) BrowserDir() string { return s.browser.dir }

// ShouldQuit is true only in the Quit mode.
func (s State) ShouldQuit() bool { return s.mode == ModeQuit }

// explorerItems is the number of selectable lines in ExploreConnection.
func (s State) explorerItems() int {
	return len(s.explorer.profiles) + len(s.explorer.tables)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
