package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/nhath/litequery/internal/app"
	"github.com/nhath/litequery/internal/config"
	"github.com/nhath/litequery/internal/db"
	"github.com/nhath/litequery/internal/event"
	"github.com/nhath/litequery/internal/export"
	"github.com/nhath/litequery/internal/fsbrowse"
	"github.com/nhath/litequery/internal/history"
	"github.com/nhath/litequery/internal/ui"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	env, opts, closeHistory := newEnv(ctx, cfg)
	defer closeHistory()
	if query != "" {
		opts.Draft = query
	}

	s, boot := app.New(env, opts).Boot(startupPolicy(dbFile, inMemory))

	term := ui.OpenTerminal()
	defer func() {
		if r := recover(); r != nil {
			term.Kill()
			panic(r)
		}
	}()

	mux := event.Start(ctx, term, cfg.TickInterval())
	renderer := ui.NewRenderer(cfg.Theme, term.Paint)

	final, err := app.Run(ctx, mux, s, renderer, boot)

	if cerr := mux.Close(); cerr != nil {
		logger.Warn("event loop shutdown", "error", cerr)
	}
	if cerr := term.Close(); cerr != nil {
		logger.Warn("terminal shutdown", "error", cerr)
	}
	if cerr := final.Session().Close(); cerr != nil {
		logger.Warn("closing connection", "error", cerr)
	}

	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return ctx.Err()
}

// newEnv wires the collaborators of the state machine from c. The returned
// func closes the history store.
func newEnv(ctx context.Context, c *config.Config) (*app.Env, app.Options, func()) {
	store := newConfigStore(c, newLazyKeyring())
	env := &app.Env{
		Gateway:   db.NewGateway(c.Database.SQLiteDriver, logger),
		Profiles:  store,
		Lister:    fsbrowse.Lister{Extensions: c.Database.Extensions},
		Clipboard: clipboard.WriteAll,
		SavePrefs: store.SavePrefs,
		Export:    export.ToFile,
		Keys:      app.NewKeys(c.Keys),
		Logger:    logger,
	}
	opts := app.Options{
		Draft: c.StartQuery,
		Prefs: app.PrefsFromConfig(c),
	}
	if wd, err := os.Getwd(); err == nil {
		opts.Dir = wd
	}

	path, err := history.DefaultPath()
	if err != nil {
		logger.Warn("history disabled", "error", err)
		return env, opts, func() {}
	}
	hist, err := history.Open(ctx, path, c.History.Limit)
	if err != nil {
		logger.Warn("history disabled", "path", path, "error", err)
		return env, opts, func() {}
	}
	env.Recorder = hist
	if c.History.Persist {
		opts.Executed, err = hist.Recent(ctx, c.History.Limit)
		if err != nil {
			logger.Warn("loading history", "error", err)
		}
	}
	return env, opts, func() {
		if err := hist.Close(); err != nil {
			logger.Warn("closing history", "error", err)
		}
	}
}

// configStore serializes access to the config shared by the main loop
// (profile listing) and background commands (DSN lookup, saving).
type configStore struct {
	mu      sync.Mutex
	cfg     *config.Config
	secrets config.SecretStore
}

func newConfigStore(c *config.Config, secrets config.SecretStore) *configStore {
	return &configStore{cfg: c, secrets: secrets}
}

func (s *configStore) ListProfiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.ListProfiles()
}

func (s *configStore) ResolveDSN(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.ResolveDSN(name, s.secrets)
}

// SavePrefs writes the in-session preferences to the config file.
func (s *configStore) SavePrefs(p app.Prefs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ApplyTo(s.cfg)
	return s.cfg.Save()
}

// lazyKeyring opens the OS keyring on first use, so sessions that only
// touch sqlite files never talk to a keyring backend.
type lazyKeyring struct {
	open func() (*config.KeyringStore, error)
}

func newLazyKeyring() *lazyKeyring {
	return &lazyKeyring{open: sync.OnceValues(config.NewKeyringStore)}
}

func (k *lazyKeyring) SetPassword(profile, password string) error {
	ring, err := k.open()
	if err != nil {
		return err
	}
	return ring.SetPassword(profile, password)
}

// GetPassword reports an unavailable keyring as a missing password so
// profiles still connect without one.
func (k *lazyKeyring) GetPassword(profile string) (string, error) {
	ring, err := k.open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", config.ErrNoPassword, err)
	}
	return ring.GetPassword(profile)
}

func (k *lazyKeyring) DeletePassword(profile string) error {
	ring, err := k.open()
	if err != nil {
		return err
	}
	return ring.DeletePassword(profile)
}
