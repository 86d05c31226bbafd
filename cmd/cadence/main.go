// Command cadence tracks one-off and recurring to-dos for a household and
// reports how reliably they get done.
package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/dukerupert/cadence/internal/config"
	"github.com/dukerupert/cadence/internal/database"
	"github.com/dukerupert/cadence/internal/logging"
	"github.com/dukerupert/cadence/internal/store"
)

var version = "dev"

// app carries what every subcommand needs once the root has loaded config
// and opened the database.
type app struct {
	db          *sql.DB
	series      *store.SeriesStore
	todos       *store.TodoStore
	completions *store.CompletionStore

	dbPath     string
	passphrase string
	owner      string
	today      civil.Date
	pinned     bool
	json       bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

func newRootCmd(a *app) *cobra.Command {
	var cfgPath, envFile, dbPath, owner, today string

	root := &cobra.Command{
		Use:   "cadence",
		Short: "Recurring to-dos and completion stats",
		Long: `cadence keeps a household's one-off and recurring to-dos in a local
SQLite file, shows what is due today, and reports completion rates and
streaks.

Configuration is read from a YAML file (--config) and CADENCE_* environment
variables, which may also come from a dotenv file (--env-file). Flags
override all of them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			if owner != "" {
				cfg.Owner = owner
			}
			if today != "" {
				cfg.Today = today
			}

			logging.Setup(cfg.LogLevel, cfg.LogFormat)
			return a.open(cfg)
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "cadence.yaml", "path to YAML config file")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with CADENCE_* variables")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	root.PersistentFlags().StringVar(&owner, "owner", "", "member whose to-dos to act on (overrides config)")
	root.PersistentFlags().StringVar(&today, "today", "", "treat this date (YYYY-MM-DD) as today")
	root.PersistentFlags().BoolVar(&a.json, "json", false, "write JSON instead of tables")

	root.AddCommand(
		newSeriesCmd(a),
		newTodoCmd(a),
		newMarkCmd(a, true),
		newMarkCmd(a, false),
		newOccursCmd(a),
		newStatsCmd(a),
		newCalendarCmd(a),
		newTodayCmd(a),
		newExportCmd(a),
		newBackupCmd(a),
		newRestoreCmd(a),
		newWatchCmd(a),
	)
	return root
}

func (a *app) open(cfg *config.Config) error {
	today, err := cfg.TodayDate(time.Now())
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	a.db = db
	a.series = store.NewSeriesStore(db)
	a.todos = store.NewTodoStore(db)
	a.completions = store.NewCompletionStore(db)
	a.dbPath = cfg.DBPath
	a.passphrase = cfg.BackupPassphrase
	a.owner = cfg.Owner
	a.today = today
	a.pinned = cfg.Today != ""

	slog.Debug("session ready", "db_path", cfg.DBPath, "owner", a.owner, "today", today)
	return nil
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		slog.Warn("close database", "error", err)
	}
	a.db = nil
}
