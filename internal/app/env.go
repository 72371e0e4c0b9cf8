package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/nhath/litequery/internal/db"
	"github.com/nhath/litequery/internal/export"
	"github.com/nhath/litequery/internal/fsbrowse"
	"github.com/nhath/litequery/internal/history"
)

// Gateway opens connections and runs statements. Implementations never
// panic; every failure is returned as an error.
type Gateway interface {
	ConnectDefault(ctx context.Context, p db.Policy) (db.Conn, error)
	ConnectFile(ctx context.Context, target string) (db.Conn, error)
	Execute(ctx context.Context, conn db.Conn, text string) (*db.QueryResult, error)
	Tables(ctx context.Context, conn db.Conn) ([]string, error)
}

// ProfileSource lists saved connections and resolves them to targets.
type ProfileSource interface {
	ListProfiles() []string
	ResolveDSN(name string) (string, error)
}

type DirLister interface {
	List(dir string) (string, []fsbrowse.Entry, error)
}

// Recorder persists executed queries.
type Recorder interface {
	Add(ctx context.Context, e *history.Entry) error
}

// Env holds the collaborators the state machine hands work to. Only
// commands call into it; Update itself never does I/O.
type Env struct {
	Gateway   Gateway
	Profiles  ProfileSource
	Lister    DirLister
	Recorder  Recorder
	Clipboard func(string) error
	SavePrefs func(Prefs) error
	// Export writes a result file and returns the path written.
	Export func(path string, f export.Format, columns []string, rows [][]string) (string, error)
	Keys      Keys
	Logger    *slog.Logger
	Now       func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func (e *Env) profiles() []string {
	if e.Profiles == nil {
		return nil
	}
	return e.Profiles.ListProfiles()
}
