package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhath/litequery/internal/config"
	"github.com/nhath/litequery/internal/db"
)

const debugLogFile = "debug.log"

var (
	cfgFile  string
	dbFile   string
	inMemory bool
	query    string
	debug    bool

	cfg     *config.Config
	logger  = slog.New(slog.DiscardHandler)
	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "litequery",
	Short: "Terminal browser for SQLite databases",
	Long: `litequery is an interactive terminal browser for SQLite databases.

Open a database file, write queries in the editor and page through the
results. Saved profiles can also point at PostgreSQL or MySQL servers.

Examples:
  litequery
  litequery -f app.db
  litequery -m -q "SELECT * FROM users"`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(debug); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logFile != nil {
			return logFile.Close()
		}
		return nil
	},
	RunE: runTUI,
}

// setupLogging routes both log and slog to debug.log when enabled and
// discards everything otherwise; the terminal belongs to the UI.
func setupLogging(enabled bool) error {
	if !enabled {
		log.SetOutput(io.Discard)
		logger = slog.New(slog.DiscardHandler)
		return nil
	}
	f, err := tea.LogToFile(debugLogFile, "debug")
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	logFile = f
	log.SetOutput(f)
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
	return nil
}

// startupPolicy maps the connection flags to the startup policy.
func startupPolicy(dbFile string, inMemory bool) db.Policy {
	switch {
	case inMemory:
		return db.Policy{Kind: db.InMemoryWithSeedData}
	case dbFile != "":
		return db.Policy{Kind: db.FromFile, Path: dbFile}
	}
	return db.Policy{Kind: db.NoDatabase}
}

// Execute runs the root command with a background context.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/litequery/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug logging to "+debugLogFile)
	addStartupFlags(rootCmd)
}

func addStartupFlags(c *cobra.Command) {
	c.Flags().StringVarP(&dbFile, "db-file", "f", "", "open this SQLite database file on startup")
	c.Flags().BoolVarP(&inMemory, "in-memory", "m", false, "start with an in-memory database holding sample data")
	c.Flags().StringVarP(&query, "query", "q", "", "initial query text (default: start_query from the config)")
	c.MarkFlagsMutuallyExclusive("db-file", "in-memory")
}
