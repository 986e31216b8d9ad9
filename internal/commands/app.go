package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/balkashynov/taskman/internal/auth"
	"github.com/balkashynov/taskman/internal/config"
	"github.com/balkashynov/taskman/internal/db"
	"github.com/balkashynov/taskman/internal/logging"
	"github.com/balkashynov/taskman/internal/mockapi"
	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/persist"
	"github.com/balkashynov/taskman/internal/storage"
	"github.com/balkashynov/taskman/internal/store"
	"github.com/balkashynov/taskman/internal/tracker"
)

// App is everything a command needs, built once per invocation
type App struct {
	cfg      config.Config
	logger   *zap.SugaredLogger
	db       *gorm.DB
	kv       storage.KV
	backend  *mockapi.Backend
	auth     *auth.Store
	store    *store.Store
	sessions *db.SessionStore
	tracker  *tracker.Tracker

	closers []func() error
}

// newApp loads config and wires storage, the task store and the tracker
func newApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Dir:     cfg.LogDir(),
		Level:   cfg.LogLevel,
		Console: cfg.LogConsole,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	a := &App{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() error {
		_ = logger.Sync()
		return nil
	})

	gdb, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.db = gdb
	a.closers = append(a.closers, func() error { return db.Close(gdb) })

	if a.kv, err = a.openKV(ctx); err != nil {
		a.Close()
		return nil, err
	}

	variant, err := store.ParseVariant(cfg.Variant)
	if err != nil {
		a.Close()
		return nil, err
	}
	policy, err := store.ParseFilterPolicy(cfg.FilterPolicy)
	if err != nil {
		a.Close()
		return nil, err
	}

	latency := mockapi.DefaultLatency()
	if cfg.Latency >= 0 {
		latency = mockapi.Latency{Auth: cfg.Latency, Read: cfg.Latency, Write: cfg.Latency}
	}
	a.backend = mockapi.New(mockapi.Config{Latency: latency, JWTSecret: cfg.JWTSecret})
	a.auth = auth.New(a.backend.Auth, a.kv, logger)

	var adapter persist.Adapter
	if variant == store.MultiUser {
		adapter = persist.NewRemote(a.backend.Tasks, a.auth.CurrentUser, "")
	} else {
		adapter = persist.NewLocal(a.kv, logger)
	}

	a.store = store.New(adapter,
		store.WithVariant(variant),
		store.WithFilterPolicy(policy),
		store.WithLogger(logger),
		store.WithUserProvider(a.auth.CurrentUser),
	)
	a.sessions = db.NewSessionStore(gdb)
	a.tracker = tracker.New(a.store, a.sessions, nil, logger)

	if err := a.load(ctx); err != nil {
		a.Close()
		return nil, err
	}

	logger.Debugw("App ready",
		"variant", variant.String(),
		"storage", cfg.Storage,
		"tasks", len(a.store.Tasks()),
	)
	return a, nil
}

func (a *App) openKV(ctx context.Context) (storage.KV, error) {
	switch a.cfg.Storage {
	case config.StorageMemory:
		return storage.NewMemory(), nil
	case config.StorageRedis:
		r, err := storage.DialRedis(ctx, a.cfg.RedisAddr, a.cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, r.Close)
		return r, nil
	default:
		return db.NewKVStore(a.db), nil
	}
}

// load fills the store. In the multi-user variant the store follows the auth
// state, so restoring or signing in is what loads the tasks.
func (a *App) load(ctx context.Context) error {
	if a.store.Variant() == store.SingleUser {
		return a.store.Reload(ctx)
	}

	unbind := a.store.BindAuth(ctx, a.auth)
	a.closers = append(a.closers, func() error {
		unbind()
		return nil
	})

	if err := a.auth.Restore(ctx); err != nil {
		a.logger.Infow("Saved session not restored", "error", err)
	}

	username := viper.GetString("user")
	if username == "" {
		return nil
	}
	creds := models.Credentials{Username: username, Password: viper.GetString("password")}
	if err := a.auth.Login(ctx, creds); err != nil {
		return fmt.Errorf("login as %s failed: %w", username, err)
	}
	return nil
}

// Close releases resources in reverse order of acquisition
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warnw("Failed to close resource", "error", err)
		}
	}
	a.closers = nil
}

// requireUser fails when the multi-user variant has nobody signed in
func (a *App) requireUser() (*models.User, error) {
	user := a.auth.CurrentUser()
	if user == nil {
		return nil, errors.New("not logged in, run 'taskman login' or pass --user")
	}
	return user, nil
}

// withApp wraps a command function so it runs with a ready App
func withApp(fn func(cmd *cobra.Command, args []string, a *App)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		a, err := newApp(cmd.Context())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer a.Close()
		fn(cmd, args, a)
	}
}

const shortIDLength = 12

// shortID is the display form of a task id
func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

// resolveTask finds a task by full id or by an unambiguous id prefix
func resolveTask(s *store.Store, ref string) (models.Task, error) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	if ref == "" {
		return models.Task{}, errors.New("task id is required")
	}
	if task, ok := s.Task(ref); ok {
		return task, nil
	}

	var found []models.Task
	for _, t := range s.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return models.Task{}, fmt.Errorf("task %q not found", ref)
	case 1:
		return found[0], nil
	}
	return models.Task{}, fmt.Errorf("task id %q is ambiguous (%d matches)", ref, len(found))
}

// assigneeIDs maps usernames to user ids through the backend's user table
func (a *App) assigneeIDs(usernames []string) ([]string, error) {
	ids := make([]string, 0, len(usernames))
	for _, name := range usernames {
		user, ok := a.backend.Auth.UserByUsername(name)
		if !ok {
			return nil, fmt.Errorf("unknown user @%s", name)
		}
		ids = append(ids, user.ID)
	}
	return ids, nil
}

// usernameOf renders a user id as @username when the backend knows it
func (a *App) usernameOf(id string) string {
	for _, u := range a.backend.Auth.Users() {
		if u.ID == id {
			return "@" + u.Username
		}
	}
	return id
}
