// internal/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config represents the application configuration
type Config struct {
	StartQuery string         `toml:"start_query"`
	TickMs     int            `toml:"tick_ms"`
	UI         UIConfig       `toml:"ui"`
	History    HistoryConfig  `toml:"history"`
	Database   DatabaseConfig `toml:"database"`
	Profiles   []Profile      `toml:"profiles"`
	Theme      Theme          `toml:"theme_colors"`
	Keys       KeyMap         `toml:"keys"`

	path string
}

// UIConfig holds the preferences editable from inside the program.
type UIConfig struct {
	RunOnConnect     bool `toml:"run_on_connect"`
	ResultsOnSuccess bool `toml:"results_on_success"`
	PageSize         int  `toml:"page_size"`
	ShowHelp         bool `toml:"show_help"`
}

type HistoryConfig struct {
	Persist bool `toml:"persist"`
	Limit   int  `toml:"limit"`
}

type DatabaseConfig struct {
	// SQLiteDriver is "sqlite3" (cgo) or "sqlite" (pure Go).
	SQLiteDriver string   `toml:"sqlite_driver"`
	Extensions   []string `toml:"extensions"`
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	Warning       string `toml:"warning"`
	BgPrimary     string `toml:"bg_primary"`
	BgSecondary   string `toml:"bg_secondary"`
	// SyntaxStyle is a chroma style name used for query highlighting.
	SyntaxStyle string `toml:"syntax_style"`
}

// KeyMap defines key bindings
type KeyMap struct {
	Quit        []string `toml:"quit"`
	Back        []string `toml:"back"`
	Help        []string `toml:"help"`
	Select      []string `toml:"select"`
	NextPanel   []string `toml:"next_panel"`
	PrevPanel   []string `toml:"prev_panel"`
	OpenBrowser []string `toml:"open_browser"`
	OpenConfig  []string `toml:"open_config"`
	Disconnect  []string `toml:"disconnect"`
	Rerun       []string `toml:"rerun"`
	Execute     []string `toml:"execute"`
	RecallPrev  []string `toml:"recall_prev"`
	RecallNext  []string `toml:"recall_next"`
	ClearDraft  []string `toml:"clear_draft"`
	Up          []string `toml:"up"`
	Down        []string `toml:"down"`
	Left        []string `toml:"left"`
	Right       []string `toml:"right"`
	NextPage    []string `toml:"next_page"`
	PrevPage    []string `toml:"prev_page"`
	Parent      []string `toml:"parent"`
	CopyCell    []string `toml:"copy_cell"`
	CopyRow     []string `toml:"copy_row"`
	Toggle      []string `toml:"toggle"`
	Save        []string `toml:"save"`
	ExportCSV   []string `toml:"export_csv"`
	ExportJSON  []string `toml:"export_json"`
}

// Profile represents a saved database connection. Passwords are never
// written to the config file; see KeyringStore.
type Profile struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"` // postgres, mysql, sqlite
	Host     string `toml:"host,omitempty"`
	Port     int    `toml:"port,omitempty"`
	User     string `toml:"user,omitempty"`
	Database string `toml:"database"`
	Options  string `toml:"options,omitempty"` // raw query string, e.g. sslmode=disable
}

const DefaultStartQuery = "SELECT id, name, email FROM users"

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		StartQuery: DefaultStartQuery,
		TickMs:     100,
		UI: UIConfig{
			RunOnConnect:     true,
			ResultsOnSuccess: false,
			PageSize:         20,
			ShowHelp:         true,
		},
		History: HistoryConfig{
			Persist: true,
			Limit:   500,
		},
		Database: DatabaseConfig{
			SQLiteDriver: "sqlite3",
			Extensions:   []string{".db", ".sqlite", ".sqlite3", ".db3"},
		},
		Profiles: []Profile{},
		Theme: Theme{
			// Nord
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			Warning:       "#D08770",
			BgPrimary:     "#2E3440",
			BgSecondary:   "#3B4252",
			SyntaxStyle:   "nord",
		},
		Keys: KeyMap{
			Quit:        []string{"q", "ctrl+c"},
			Back:        []string{"esc"},
			Help:        []string{"?"},
			Select:      []string{"enter"},
			NextPanel:   []string{"tab"},
			PrevPanel:   []string{"shift+tab"},
			OpenBrowser: []string{"o"},
			OpenConfig:  []string{"c"},
			Disconnect:  []string{"d"},
			Rerun:       []string{"r"},
			Execute:     []string{"ctrl+d", "f5"},
			RecallPrev:  []string{"ctrl+p"},
			RecallNext:  []string{"ctrl+n"},
			ClearDraft:  []string{"ctrl+u"},
			Up:          []string{"k", "up"},
			Down:        []string{"j", "down"},
			Left:        []string{"h", "left"},
			Right:       []string{"l", "right"},
			NextPage:    []string{"n", "pgdown"},
			PrevPage:    []string{"b", "pgup"},
			Parent:      []string{"backspace"},
			CopyCell:    []string{"y"},
			CopyRow:     []string{"Y"},
			Toggle:      []string{"enter", "space"},
			Save:        []string{"s"},
			ExportCSV:   []string{"e"},
			ExportJSON:  []string{"E"},
		},
	}
}

// DefaultPath returns the XDG-compliant config file path
func DefaultPath() (string, error) {
	return xdg.ConfigFile("litequery/config.toml")
}

// TickInterval returns the ticker period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string { return c.path }

// Load reads the config at path, creating it with defaults on first run.
// An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.path = path
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.path = path

	if cfg.migrate(md) {
		// Persist the filled-in defaults so they are visible for editing.
		if err := cfg.Save(); err != nil {
			slog.Warn("could not save migrated config", "path", path, "error", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// migrate fills sections missing from the file with defaults and reports
// whether anything changed.
func (c *Config) migrate(md toml.MetaData) bool {
	defaults := DefaultConfig()
	updated := false

	if !md.IsDefined("start_query") {
		c.StartQuery = defaults.StartQuery
		updated = true
	}
	if c.TickMs <= 0 {
		c.TickMs = defaults.TickMs
		updated = true
	}
	if !md.IsDefined("ui", "run_on_connect") {
		c.UI.RunOnConnect = defaults.UI.RunOnConnect
		updated = true
	}
	if !md.IsDefined("ui", "results_on_success") {
		c.UI.ResultsOnSuccess = defaults.UI.ResultsOnSuccess
		updated = true
	}
	if !md.IsDefined("ui", "show_help") {
		c.UI.ShowHelp = defaults.UI.ShowHelp
		updated = true
	}
	if c.UI.PageSize <= 0 {
		c.UI.PageSize = defaults.UI.PageSize
		updated = true
	}
	if !md.IsDefined("history") {
		c.History = defaults.History
		updated = true
	}
	if c.Database.SQLiteDriver == "" {
		c.Database.SQLiteDriver = defaults.Database.SQLiteDriver
		updated = true
	}
	if len(c.Database.Extensions) == 0 {
		c.Database.Extensions = defaults.Database.Extensions
		updated = true
	}
	if c.Theme.TextPrimary == "" {
		c.Theme = defaults.Theme
		updated = true
	}
	if c.Theme.SyntaxStyle == "" {
		c.Theme.SyntaxStyle = defaults.Theme.SyntaxStyle
		updated = true
	}
	if len(c.Keys.Quit) == 0 {
		c.Keys = defaults.Keys
		updated = true
	}
	if len(c.Keys.ExportCSV) == 0 {
		c.Keys.ExportCSV = defaults.Keys.ExportCSV
		updated = true
	}
	if len(c.Keys.ExportJSON) == 0 {
		c.Keys.ExportJSON = defaults.Keys.ExportJSON
		updated = true
	}
	if c.Profiles == nil {
		c.Profiles = []Profile{}
	}
	return updated
}

// Validate rejects values the program cannot run with.
func (c *Config) Validate() error {
	if !slices.Contains([]string{"sqlite3", "sqlite"}, c.Database.SQLiteDriver) {
		return fmt.Errorf("database.sqlite_driver must be \"sqlite3\" or \"sqlite\", got %q", c.Database.SQLiteDriver)
	}
	seen := make(map[string]bool, len(c.Profiles))
	for _, p := range c.Profiles {
		if p.Name == "" {
			return fmt.Errorf("profile without a name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate profile %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Save writes the config to the path it was loaded from
func (c *Config) Save() error {
	if c.path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		c.path = p
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}

	// Owner read/write only.
	f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SetPath changes where Save writes.
func (c *Config) SetPath(path string) { c.path = path }
