package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tickr/internal/auth"
	"github.com/desertthunder/tickr/internal/cache"
	"github.com/desertthunder/tickr/internal/favourites"
	"github.com/desertthunder/tickr/internal/models"
	"github.com/desertthunder/tickr/internal/services"
	"github.com/desertthunder/tickr/internal/shared"
	"github.com/desertthunder/tickr/internal/store"
	"github.com/desertthunder/tickr/internal/theme"
	"github.com/desertthunder/tickr/internal/ui"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const memoryDatabase = ":memory:"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Store-backed dependencies are built on first use by [Runner.connect] and torn
// down by [Runner.Close], so commands like `setup config` never open the database.
type Runner struct {
	config     *shared.Config
	logger     *log.Logger
	output     io.Writer
	fs         afero.Fs
	httpClient *http.Client

	db         *sql.DB
	sessions   *auth.SessionStore
	session    *auth.Session
	service    services.Service
	favourites *favourites.Repository
	surface    *ui.Surface
	theme      *theme.Controller
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Logger     *log.Logger
	Output     io.Writer
	Fs         afero.Fs // session and cache files; defaults to the OS filesystem
	HTTPClient *http.Client
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	return &Runner{
		config:     opts.Config,
		logger:     opts.Logger,
		output:     opts.Output,
		fs:         opts.Fs,
		httpClient: opts.HTTPClient,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, userCommand, themeCommand, favouritesCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config. A missing default config file
// keeps the current configuration; a missing file named explicitly is an error.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	if _, err := os.Stat(path); err != nil {
		if cmd.IsSet("config") {
			return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
		r.logger.Debug("config file not found, using defaults", "path", path)
		return ctx, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return ctx, err
	}
	r.SetConfig(config)
	r.logger.Debug("loaded config", "path", path)
	return ctx, nil
}

// After releases everything [Runner.connect] acquired.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	return r.Close()
}

// SetConfig replaces the configuration used by subsequent connections.
func (r *Runner) SetConfig(config *shared.Config) {
	r.config = config
}

// SetLogger replaces the logger. Call before [Runner.connect] so the store-backed
// dependencies pick it up.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// connect loads the saved session and builds the service, favourites repository,
// and theme controller. It is a no-op when already connected.
func (r *Runner) connect() error {
	if r.service != nil {
		return nil
	}

	r.sessions = auth.NewSessionStore(r.fs, r.config.Client.SessionPath())
	session, err := r.sessions.Load()
	if err != nil {
		r.logger.Warn("ignoring unreadable session", "error", err)
		session = &auth.Session{}
	}
	r.session = session

	svc, err := r.newService(session.Token)
	if err != nil {
		return err
	}
	r.service = svc

	kv := cache.NewFileCache(r.fs, r.config.Client.CachePath())
	r.surface = ui.NewSurface()
	r.theme = theme.NewController(kv, svc, r.logger, r.surface)
	r.favourites = favourites.NewRepository(svc, session, r.logger)

	r.logger.Debug("connected", "backend", svc.Name(), "signed_in", session.UserID != "")
	return nil
}

// newService builds the configured backend authenticated with token.
func (r *Runner) newService(token string) (services.Service, error) {
	if r.config.Remote.Enabled() {
		client := r.httpClient
		if client == nil {
			client = &http.Client{Timeout: r.config.Remote.Timeout()}
		}
		return services.NewProfileService(r.config.Remote.URL, token, client), nil
	}

	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return services.NewLocalService(db, token), nil
}

// database opens the configured SQLite database once and brings its schema up to date.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	path := shared.ExpandHome(r.config.Database.Path)
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	if path != memoryDatabase {
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	}

	applied, err := shared.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if applied > 0 {
		r.logger.Debug("applied migrations", "count", applied)
	}

	r.db = db
	return db, nil
}

// initTheme initializes the theme controller from the signed-in user's stored
// preference, falling back to the cache and then the default.
func (r *Runner) initTheme(ctx context.Context, preferred models.Theme) {
	if !preferred.Valid() {
		preferred = r.remoteTheme(ctx)
	}
	r.theme.Initialize(preferred)
}

// remoteTheme returns the stored preference, or "" when signed out or unavailable.
func (r *Runner) remoteTheme(ctx context.Context) models.Theme {
	uid, ok := r.session.CurrentUser()
	if !ok {
		return ""
	}

	doc, err := r.service.Fetch(ctx, uid)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.logger.Warn("could not load theme preference", "error", err)
		}
		return ""
	}
	return doc.Profile().ThemePreference
}

// requireSession fails when no user is signed in.
func (r *Runner) requireSession() (string, error) {
	uid, ok := r.session.CurrentUser()
	if !ok {
		return "", fmt.Errorf("%w: run `tickr user signup` or `tickr user login` first", shared.ErrNotAuthenticated)
	}
	return uid, nil
}

// Close waits for pending theme updates and closes the database.
func (r *Runner) Close() error {
	if r.theme != nil {
		r.theme.Wait()
	}

	var err error
	if r.db != nil {
		err = r.db.Close()
	}

	r.db = nil
	r.sessions = nil
	r.session = nil
	r.service = nil
	r.favourites = nil
	r.surface = nil
	r.theme = nil
	return err
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writePlain(format+"\n", args...)
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
