package app

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nhath/litequery/internal/db"
)

// Connection is the live database session. At most one exists at a time
// and it is owned by the State holding it.
type Connection struct {
	Handle   db.Conn
	Target   string
	Kind     db.DriverType
	OpenedAt time.Time
}

func newConnection(h db.Conn, at time.Time) *Connection {
	return &Connection{Handle: h, Target: h.Target(), Kind: h.Type(), OpenedAt: at}
}

// ResultSet is a materialized query result. A nil *ResultSet is the empty
// result. Every row has exactly len(Columns) cells.
type ResultSet struct {
	Query   string
	Columns []string
	Rows    [][]string
	Elapsed time.Duration
}

// AffectedColumn names the single column of a statement that returns no rows.
const AffectedColumn = "rows_affected"

// NewResultSet validates the row shape.
func NewResultSet(query string, columns []string, rows [][]string, elapsed time.Duration) (*ResultSet, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values for %d columns", i, len(row), len(columns))
		}
	}
	return &ResultSet{Query: query, Columns: columns, Rows: rows, Elapsed: elapsed}, nil
}

// resultFromQuery converts a gateway result. Statements without rows become
// a one-cell result holding the affected row count.
func resultFromQuery(query string, r *db.QueryResult) (*ResultSet, error) {
	if !r.IsSelect {
		return NewResultSet(query, []string{AffectedColumn}, [][]string{{fmt.Sprint(r.AffectedRows)}}, r.ExecTime)
	}
	rows := r.Rows
	if rows == nil {
		rows = [][]string{}
	}
	return NewResultSet(query, r.Columns, rows, r.ExecTime)
}

// Cell returns the value at row, col or "" when out of range.
func (r *ResultSet) Cell(row, col int) string {
	if r == nil || row < 0 || row >= len(r.Rows) || col < 0 || col >= len(r.Columns) {
		return ""
	}
	return r.Rows[row][col]
}

// RowCount is zero for the empty result.
func (r *ResultSet) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// ColumnCount is zero for the empty result.
func (r *ResultSet) ColumnCount() int {
	if r == nil {
		return 0
	}
	return len(r.Columns)
}

// QueryHistory is the editable draft plus the queries already executed,
// oldest first.
type QueryHistory struct {
	Draft    string
	Caret    int // rune offset into Draft
	Executed []string

	recall int    // 1 + index into Executed while recalling, 0 otherwise
	stash  string // draft saved when recall started
}

// NewQueryHistory starts with draft and the previously executed queries.
func NewQueryHistory(draft string, executed []string) QueryHistory {
	return QueryHistory{
		Draft:    draft,
		Caret:    len([]rune(draft)),
		Executed: slices.Clip(slices.Clone(executed)),
	}
}

// Last is the most recently executed query.
func (h QueryHistory) Last() (string, bool) {
	if len(h.Executed) == 0 {
		return "", false
	}
	return h.Executed[len(h.Executed)-1], true
}

// Record appends q to the executed list.
func (h QueryHistory) Record(q string) QueryHistory {
	// Clip so two states derived from the same parent never share an
	// append target.
	h.Executed = append(slices.Clip(h.Executed), q)
	h.recall = 0
	h.stash = ""
	return h
}

func (h QueryHistory) setDraft(s string) QueryHistory {
	h.Draft = s
	h.Caret = len([]rune(s))
	return h
}

func (h QueryHistory) Insert(text string) QueryHistory {
	r := []rune(h.Draft)
	caret := min(max(h.Caret, 0), len(r))
	ins := []rune(text)
	out := make([]rune, 0, len(r)+len(ins))
	out = append(out, r[:caret]...)
	out = append(out, ins...)
	out = append(out, r[caret:]...)
	h.Draft = string(out)
	h.Caret = caret + len(ins)
	h.recall = 0
	return h
}

func (h QueryHistory) DeleteBack() QueryHistory {
	r := []rune(h.Draft)
	if h.Caret <= 0 || len(r) == 0 {
		return h
	}
	caret := min(h.Caret, len(r))
	h.Draft = string(append(r[:caret-1:caret-1], r[caret:]...))
	h.Caret = caret - 1
	h.recall = 0
	return h
}

func (h QueryHistory) DeleteForward() QueryHistory {
	r := []rune(h.Draft)
	if h.Caret >= len(r) {
		return h
	}
	h.Draft = string(append(r[:h.Caret:h.Caret], r[h.Caret+1:]...))
	h.recall = 0
	return h
}

func (h QueryHistory) Clear() QueryHistory {
	h.Draft = ""
	h.Caret = 0
	h.recall = 0
	return h
}

// CaretPos returns the zero based line and column of the caret.
func (h QueryHistory) CaretPos() (line, col int) {
	r := []rune(h.Draft)
	for i := 0; i < h.Caret && i < len(r); i++ {
		if r[i] == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return line, col
}

// lineStarts returns the rune offset at which each line begins.
func lineStarts(r []rune) []int {
	starts := []int{0}
	for i, c := range r {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (h QueryHistory) Move(d Direction) QueryHistory {
	r := []rune(h.Draft)
	starts := lineStarts(r)
	line, col := h.CaretPos()
	lineEnd := func(l int) int {
		if l+1 < len(starts) {
			return starts[l+1] - 1
		}
		return len(r)
	}

	switch d {
	case Left:
		h.Caret = max(h.Caret-1, 0)
	case Right:
		h.Caret = min(h.Caret+1, len(r))
	case Up:
		if line > 0 {
			h.Caret = min(starts[line-1]+col, lineEnd(line-1))
		}
	case Down:
		if line+1 < len(starts) {
			h.Caret = min(starts[line+1]+col, lineEnd(line+1))
		}
	case LineStart:
		h.Caret = starts[line]
	case LineEnd:
		h.Caret = lineEnd(line)
	}
	return h
}

// RecallPrev replaces the draft with the previous executed query. The
// draft being edited is kept and restored by RecallNext.
func (h QueryHistory) RecallPrev() QueryHistory {
	switch {
	case len(h.Executed) == 0 || h.recall == 1:
		return h
	case h.recall == 0:
		h.stash = h.Draft
		h.recall = len(h.Executed)
	default:
		h.recall--
	}
	return h.setDraft(h.Executed[h.recall-1])
}

func (h QueryHistory) RecallNext() QueryHistory {
	if h.recall == 0 {
		return h
	}
	if h.recall < len(h.Executed) {
		h.recall++
		return h.setDraft(h.Executed[h.recall-1])
	}
	stash := h.stash
	h.recall = 0
	h.stash = ""
	return h.setDraft(stash)
}

// Recalling reports whether the draft currently shows a recalled query.
func (h QueryHistory) Recalling() bool { return h.recall > 0 }

// Session is the data every mode carries: the connection, the last result
// and the query history.
type Session struct {
	Conn    *Connection
	Results *ResultSet
	History QueryHistory
}

// Connected reports whether a connection is live.
func (s Session) Connected() bool { return s.Conn != nil }

// replace installs c and returns the connection it displaced, if any.
func (s Session) replace(c *Connection) (Session, *Connection) {
	old := s.Conn
	s.Conn = c
	if old != nil && c != nil && old.Handle == c.Handle {
		old = nil
	}
	return s, old
}

// Disconnect clears the connection. Calling it with no connection is a
// no-op. The displaced connection is returned for closing.
func (s Session) Disconnect() (Session, *Connection) {
	return s.replace(nil)
}

// Close releases the connection, if any.
func (s Session) Close() error {
	if s.Conn == nil {
		return nil
	}
	return s.Conn.Handle.Close()
}

// Direction of caret or cursor movement.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
	LineStart
	LineEnd
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	case LineStart:
		return "home"
	case LineEnd:
		return "end"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// previewQuery selects the first rows of table, quoted for kind.
func previewQuery(kind db.DriverType, table string) string {
	if kind == db.MySQL {
		return fmt.Sprintf("SELECT * FROM `%s` LIMIT 100", strings.ReplaceAll(table, "`", "``"))
	}
	return fmt.Sprintf("SELECT * FROM \"%s\" LIMIT 100", strings.ReplaceAll(table, `"`, `""`))
}
