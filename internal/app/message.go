package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/nhath/litequery/internal/db"
	"github.com/nhath/litequery/internal/export"
	"github.com/nhath/litequery/internal/fsbrowse"
)

// Message is the closed set of signals applied by State.Update. Intents
// come from input translation, outcomes from finished background work.
type Message interface{ message() }

// Followup is the subset of messages Update may hand back for immediate
// re-application. Neither of them yields a further followup.
type Followup interface {
	Message
	followup()
}

// Intents.
type (
	NoOp        struct{}
	Quit        struct{}
	SelectMode  struct{}
	Escape      struct{}
	FocusNext   struct{}
	FocusPrev   struct{}
	FocusPanel  struct{ Panel Panel }
	OpenBrowser struct{}
	OpenConfig  struct{}
	Disconnect  struct{}
	ToggleHelp  struct{}
	Resize      struct{ Width, Height int }
	Tick        struct{ At time.Time }

	// RunQuery executes Text against the current connection.
	RunQuery    struct{ Text string }
	ShowResults struct{}

	// ConnectTo opens a sqlite path or a server URL.
	ConnectTo      struct{ Target string }
	ConnectProfile struct{ Name string }

	InsertText    struct{ Text string }
	DeleteBack    struct{}
	DeleteForward struct{}
	MoveCaret     struct{ Dir Direction }
	Newline       struct{}
	RecallPrev    struct{}
	RecallNext    struct{}
	ClearDraft    struct{}

	MoveCursor struct{ Rows, Cols int }
	ChangeDir  struct{ Dir string }
	CopyCell   struct{ Row bool }

	// SaveResults writes the current results to Path, or to a timestamped
	// file in the browser directory when Path is empty.
	SaveResults struct {
		Path   string
		Format export.Format
	}

	ToggleSetting struct{}
	SaveConfig    struct{}
)

// Outcomes.
type (
	QuerySucceeded struct {
		Query  string
		Result *ResultSet
	}
	QueryFailed struct {
		Query        string
		Reason       string
		NoConnection bool
	}

	// ConnectSucceeded hands ownership of Conn to the state that applies it.
	ConnectSucceeded struct{ Conn *Connection }
	ConnectFailed    struct{ Target, Reason string }

	DirListed struct {
		Dir     string
		Entries []fsbrowse.Entry
		Reason  string
	}
	TablesLoaded struct {
		Target string
		Tables []string
		Reason string
	}

	Copied       struct{ What, Reason string }
	ConfigSaved  struct{ Reason string }
	ResultsSaved struct {
		Path   string
		Rows   int
		Reason string
	}
)

// batchMsg carries commands to be started by the driver.
type batchMsg []Cmd

func (NoOp) message()           {}
func (Quit) message()           {}
func (SelectMode) message()     {}
func (Escape) message()         {}
func (FocusNext) message()      {}
func (FocusPrev) message()      {}
func (FocusPanel) message()     {}
func (OpenBrowser) message()    {}
func (OpenConfig) message()     {}
func (Disconnect) message()     {}
func (ToggleHelp) message()     {}
func (Resize) message()         {}
func (Tick) message()           {}
func (RunQuery) message()       {}
func (ShowResults) message()    {}
func (ConnectTo) message()      {}
func (ConnectProfile) message() {}
func (InsertText) message()     {}
func (DeleteBack) message()     {}
func (DeleteForward) message()  {}
func (MoveCaret) message()      {}
func (Newline) message()        {}
func (RecallPrev) message()     {}
func (RecallNext) message()     {}
func (ClearDraft) message()     {}
func (MoveCursor) message()     {}
func (ChangeDir) message()      {}
func (CopyCell) message()       {}
func (SaveResults) message()    {}
func (ToggleSetting) message()  {}
func (SaveConfig) message()     {}

func (QuerySucceeded) message()   {}
func (QueryFailed) message()      {}
func (ConnectSucceeded) message() {}
func (ConnectFailed) message()    {}
func (DirListed) message()        {}
func (TablesLoaded) message()     {}
func (Copied) message()           {}
func (ConfigSaved) message()      {}
func (ResultsSaved) message()     {}
func (batchMsg) message()         {}

func (RunQuery) followup()    {}
func (ShowResults) followup() {}

// describe renders a message for debug logs without dumping result rows.
func describe(msg Message) string {
	switch m := msg.(type) {
	case QuerySucceeded:
		return fmt.Sprintf("QuerySucceeded{rows=%d}", m.Result.RowCount())
	case ConnectSucceeded:
		if m.Conn == nil {
			return "ConnectSucceeded{<nil>}"
		}
		return fmt.Sprintf("ConnectSucceeded{%s}", m.Conn.Target)
	case DirListed:
		return fmt.Sprintf("DirListed{%s entries=%d}", m.Dir, len(m.Entries))
	case InsertText:
		return fmt.Sprintf("InsertText{%d runes}", len([]rune(m.Text)))
	default:
		return fmt.Sprintf("%T%+v", msg, msg)
	}
}

func failReason(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func isNoConnection(err error) bool {
	return err != nil && errors.Is(err, db.ErrNoActiveConnection)
}
