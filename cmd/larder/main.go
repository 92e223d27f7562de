// Larder is a terminal recipe book that saves as you type.
//
// Usage:
//
//	larder [--db larder.db] [--verbose] [--quiet]
//	larder list|show|export|import|tags|seed|pantry|version
package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/larder/internal/config"
	"github.com/hammamikhairi/larder/internal/display"
	"github.com/hammamikhairi/larder/internal/domain"
	"github.com/hammamikhairi/larder/internal/editor"
	"github.com/hammamikhairi/larder/internal/logger"
	"github.com/hammamikhairi/larder/internal/notify"
	"github.com/hammamikhairi/larder/internal/storage"
	"github.com/hammamikhairi/larder/internal/timer"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout)
	err := a.rootCmd().ExecuteContext(ctx)
	if cerr := a.teardown(); cerr != nil && err == nil {
		err = cerr
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	if err != nil {
		os.Exit(1)
	}
}

// app carries what every command needs once flags are parsed.
type app struct {
	out io.Writer

	envFile string
	driver  string
	dsn     string
	memory  bool
	verbose bool
	quiet   bool
	logFile string

	cfg      config.Config
	degraded error // set when the editor runs without its database
	log      *logger.Logger
	recipes  domain.RecipeStore
	pantry   domain.PantryStore
	notifier domain.Notifier
	closers  []func() error
}

func newApp(out io.Writer) *app {
	return &app{out: out}
}

// rootCmd builds the command tree. Resources opened while running a
// command are released by teardown.
func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "larder",
		Short:         "Edit recipes in the terminal; every change is saved as you type",
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEditor(cmd.Context())
		},
	}
	root.SetOut(a.out)

	f := root.PersistentFlags()
	f.StringVar(&a.envFile, "env-file", ".env", "dotenv file to read settings from")
	f.StringVar(&a.driver, "driver", "", "database driver: sqlite or mysql (default from LARDER_DB_DRIVER)")
	f.StringVar(&a.dsn, "db", "", "database file or DSN (default from LARDER_DB_DSN)")
	f.BoolVar(&a.memory, "memory", false, "keep everything in memory; nothing is written to disk")
	f.BoolVar(&a.verbose, "verbose", false, "enable verbose/debug logging")
	f.BoolVar(&a.quiet, "quiet", false, "disable all logging")
	f.StringVar(&a.logFile, "log-file", "", "file to write logs to (use \"stderr\" to log to console)")

	root.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newTagsCmd(a),
		newSeedCmd(a),
		newPantryCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads configuration, applies flag overrides and opens the store.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.DBDriver = a.driver
	}
	if flags.Changed("db") {
		cfg.DBDSN = a.dsn
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.logFile
	}
	if a.verbose {
		cfg.LogLevel = logger.LevelVerbose
	}
	if a.quiet {
		cfg.LogLevel = logger.LevelOff
	}
	a.cfg = cfg

	logOut := a.openLog(cmd.ErrOrStderr())
	a.log = logger.New(cfg.LogLevel, logOut)

	// Route the standard logger and the MySQL driver's logger to the same
	// place so they don't draw over the editor.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)
	mysql.SetLogger(stdlog.New(logOut, "[SQL] ", stdlog.Ltime))

	a.notifier = notify.NewCLINotifier(a.log.Named("cli"), nil)

	if a.memory {
		mem := storage.NewMemoryStore(a.log.Named("storage"))
		a.recipes, a.pantry = mem, mem
		a.log.Info("using in-memory store")
		return nil
	}

	store, err := storage.Open(cfg.DBDriver, cfg.DBDSN, a.log.Named("storage"))
	if err != nil {
		// Only the editor can work without a database: it starts on an
		// empty collection and reports every failed save.
		if cmd != cmd.Root() {
			return err
		}
		a.log.Error("storage unavailable, editing without saving: %v", err)
		a.degraded = err
		down := storage.NewUnavailable(err)
		a.recipes, a.pantry = down, down
		return nil
	}
	a.log.Info("storing recipes in the %s database", store.Driver())
	a.recipes, a.pantry = store, store
	a.closers = append(a.closers, store.Close)
	return nil
}

// openLog directs logs to the configured file so the editor stays clean.
func (a *app) openLog(fallback io.Writer) io.Writer {
	path := a.cfg.LogFile
	if path == "" || path == "stderr" {
		return fallback
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(fallback, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return fallback
	}
	a.closers = append(a.closers, f.Close)
	return f
}

func (a *app) teardown() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// newSession builds and loads an editor session over the configured store.
func (a *app) newSession(ctx context.Context, notifier domain.Notifier) *editor.Session {
	s := editor.New(a.recipes, notifier, a.log.Named("editor"),
		editor.WithStoreTimeout(a.cfg.StoreTimeout),
		editor.WithNotifyCooldown(a.cfg.NotifyCooldown),
	)
	if err := s.Load(ctx); err != nil {
		a.log.Warn("continuing without stored recipes: %v", err)
	}
	return s
}

// runEditor opens the interactive editor with auto-save and the pantry
// watcher running in the background.
func (a *app) runEditor(ctx context.Context) error {
	ui := display.NewUI(a.log.Named("display"))
	session := a.newSession(ctx, ui)
	if a.degraded != nil {
		ui.NotifyUrgent(ctx, fmt.Sprintf("Storage unavailable, changes are not saved: %v", a.degraded))
	}

	supervisor := timer.New(session, ui, a.log.Named("timer"),
		timer.WithTickInterval(a.cfg.AutoSave),
		timer.WithAfterSweep(ui.Refresh),
		timer.WithWatcher(a.pantry, session,
			timer.WithWatchInterval(a.cfg.PantryRefresh),
			timer.WithOnChange(ui.Refresh),
		),
	)
	supervisor.Start(ctx)

	err := ui.Run(ctx, session)

	supervisor.Stop()
	session.Close(context.WithoutCancel(ctx))
	return err
}
