package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nhath/litequery/internal/db"
	"github.com/nhath/litequery/internal/history"
)

// Cmd is background work started by the driver. Its Message is delivered
// back through the event queue like any other event.
type Cmd func(ctx context.Context) Message

// Batch combines commands. Nil entries are skipped.
func Batch(cmds ...Cmd) Cmd {
	var valid []Cmd
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	}
	return func(context.Context) Message { return batchMsg(valid) }
}

// OpenDefault applies the startup policy. A nil Connection with a nil
// error means the policy asked for no database.
func OpenDefault(ctx context.Context, gw Gateway, p db.Policy, now time.Time) (*Connection, error) {
	h, err := gw.ConnectDefault(ctx, p)
	if err != nil || h == nil {
		return nil, err
	}
	return newConnection(h, now), nil
}

// OpenTarget connects to a sqlite path or server URL.
func OpenTarget(ctx context.Context, gw Gateway, target string, now time.Time) (*Connection, error) {
	h, err := gw.ConnectFile(ctx, target)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, errNoConnection
	}
	return newConnection(h, now), nil
}

// ExecuteQuery runs text on conn. Without a connection it fails with
// db.ErrNoActiveConnection; it never returns an empty result in that case.
func ExecuteQuery(ctx context.Context, gw Gateway, conn *Connection, text string) (*ResultSet, error) {
	if conn == nil {
		return nil, db.ErrNoActiveConnection
	}
	r, err := gw.Execute(ctx, conn.Handle, text)
	if err != nil {
		return nil, err
	}
	return resultFromQuery(text, r)
}

func connectResult(target string, c *Connection, err error) Message {
	if err != nil {
		return ConnectFailed{Target: db.RedactDSN(target), Reason: failReason(err)}
	}
	if c == nil {
		return ConnectFailed{Target: db.RedactDSN(target), Reason: errNoConnection.Error()}
	}
	return ConnectSucceeded{Conn: c}
}

// Boot returns s with the startup connection marked in flight, and the
// command that performs it. NoDatabase needs no command.
func (s State) Boot(p db.Policy) (State, Cmd) {
	if p.Kind == db.NoDatabase {
		return s, nil
	}
	env := s.env
	target := p.Path
	if target == "" {
		target = p.Kind.String()
	}
	s.inflight++
	s.status = infoStatus("connecting to " + target)
	return s, func(ctx context.Context) Message {
		c, err := OpenDefault(ctx, env.Gateway, p, env.now())
		return connectResult(target, c, err)
	}
}

func (s State) connectCmd(target string) Cmd {
	env := s.env
	return func(ctx context.Context) Message {
		c, err := OpenTarget(ctx, env.Gateway, target, env.now())
		return connectResult(target, c, err)
	}
}

func (s State) connectProfileCmd(name string) Cmd {
	env := s.env
	return func(ctx context.Context) Message {
		if env.Profiles == nil {
			return ConnectFailed{Target: name, Reason: "no saved profiles"}
		}
		dsn, err := env.Profiles.ResolveDSN(name)
		if err != nil {
			return ConnectFailed{Target: name, Reason: err.Error()}
		}
		c, err := OpenTarget(ctx, env.Gateway, dsn, env.now())
		if err != nil {
			return ConnectFailed{Target: name, Reason: err.Error()}
		}
		return ConnectSucceeded{Conn: c}
	}
}

func (s State) queryCmd(text string) Cmd {
	env := s.env
	conn := s.session.Conn
	persist := s.prefs.PersistHistory && env.Recorder != nil
	return func(ctx context.Context) Message {
		start := env.now()
		res, err := ExecuteQuery(ctx, env.Gateway, conn, text)
		if persist && conn != nil {
			record(ctx, env, conn.Target, text, start, res, err)
		}
		if err != nil {
			return QueryFailed{Query: text, Reason: failReason(err), NoConnection: isNoConnection(err)}
		}
		return QuerySucceeded{Query: text, Result: res}
	}
}

func record(ctx context.Context, env *Env, target, text string, start time.Time, res *ResultSet, err error) {
	e := &history.Entry{
		Target:     target,
		Query:      text,
		ExecutedAt: start,
		DurationMs: env.now().Sub(start).Milliseconds(),
		Status:     history.StatusSuccess,
	}
	if err != nil {
		e.Status = history.StatusError
		e.ErrorMessage = err.Error()
	} else {
		e.RowCount = res.RowCount()
	}
	if err := env.Recorder.Add(ctx, e); err != nil {
		env.logger().Warn("could not record query", "error", err)
	}
}

func (s State) tablesCmd() Cmd {
	env := s.env
	conn := s.session.Conn
	if conn == nil {
		return nil
	}
	return func(ctx context.Context) Message {
		tables, err := env.Gateway.Tables(ctx, conn.Handle)
		return TablesLoaded{Target: conn.Target, Tables: tables, Reason: failReason(err)}
	}
}

func (s State) listDirCmd(dir string) Cmd {
	env := s.env
	return func(context.Context) Message {
		if env.Lister == nil {
			return DirListed{Dir: dir, Reason: "file browsing unavailable"}
		}
		abs, entries, err := env.Lister.List(dir)
		return DirListed{Dir: abs, Entries: entries, Reason: failReason(err)}
	}
}

func (s State) copyCmd(what, text string) Cmd {
	env := s.env
	return func(context.Context) Message {
		if env.Clipboard == nil {
			return Copied{What: what, Reason: "clipboard unavailable"}
		}
		return Copied{What: what, Reason: failReason(env.Clipboard(text))}
	}
}

func (s State) saveCmd() Cmd {
	env := s.env
	prefs := s.prefs
	return func(context.Context) Message {
		if env.SavePrefs == nil {
			return ConfigSaved{Reason: "no config file"}
		}
		return ConfigSaved{Reason: failReason(env.SavePrefs(prefs))}
	}
}

// exportCmd writes the current results. Without a path the file is named
// after the current time and placed in the browser directory.
func (s State) exportCmd(m SaveResults) Cmd {
	env := s.env
	r := s.session.Results
	dir := s.browser.dir
	return func(context.Context) Message {
		if env.Export == nil {
			return ResultsSaved{Reason: "export unavailable"}
		}
		path := m.Path
		if path == "" {
			path = "results-" + env.now().Format("20060102-150405")
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		written, err := env.Export(path, m.Format, r.Columns, r.Rows)
		if err != nil {
			return ResultsSaved{Path: path, Reason: err.Error()}
		}
		return ResultsSaved{Path: written, Rows: r.RowCount()}
	}
}

// closeCmd releases a displaced connection off the main loop.
func (s State) closeCmd(c *Connection) Cmd {
	if c == nil {
		return nil
	}
	log := s.env.logger()
	return func(context.Context) Message {
		if err := c.Handle.Close(); err != nil {
			log.Warn("closing connection", "target", c.Target, "error", err)
		}
		return NoOp{}
	}
}

func copyRow(row []string) string {
	return strings.Join(row, "\t")
}

var (
	// errEmptyQuery is reported when the draft holds only whitespace.
	errEmptyQuery = errors.New("nothing to run")
	// errNoConnection is reported when a connect returned neither a
	// connection nor an error.
	errNoConnection = errors.New("driver returned no connection")
)

func queryStatus(r *ResultSet) string {
	if len(r.Columns) == 1 && r.Columns[0] == AffectedColumn {
		return fmt.Sprintf("%s rows affected in %s", r.Cell(0, 0), r.Elapsed.Round(time.Millisecond))
	}
	return fmt.Sprintf("%d rows in %s", r.RowCount(), r.Elapsed.Round(time.Millisecond))
}
