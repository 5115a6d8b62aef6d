package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/questmap/internal/coach"
	"github.com/abhisek/questmap/internal/config"
	"github.com/abhisek/questmap/internal/llm"
	"github.com/abhisek/questmap/internal/logging"
	"github.com/abhisek/questmap/internal/practice"
	"github.com/abhisek/questmap/internal/progress"
	"github.com/abhisek/questmap/internal/store"
	"github.com/abhisek/questmap/internal/theme"
)

// env is everything a command needs, built from config and flags.
type env struct {
	cfg      config.Config
	log      *zap.Logger
	db       *store.Store
	kv       store.KV
	library  *store.Library
	registry *progress.Registry

	closers []func() error
}

// openEnv loads configuration, opens the SQLite event store and the
// configured key-value backend, and loads XP.
func openEnv(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()

	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: log}
	e.closers = append(e.closers, func() error {
		_ = log.Sync()
		return nil
	})

	dbPath, err := resolveDBPath(cmd, cfg.Storage.Path)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	e.db = db
	e.closers = append(e.closers, db.Close)

	kv, err := e.openKV(dbPath)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.kv = kv

	xp, err := progress.LoadExperience(ctx, kv, log)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.library = store.NewLibrary(kv)
	e.registry = progress.NewRegistry(kv, xp, progress.Options{
		Reward: cfg.Progress.XPReward,
		Logger: log,
		Notifier: progress.NotifierFunc(func(n progress.Notification) {
			fmt.Fprintln(cmd.OutOrStdout(), theme.XP.Render(fmt.Sprintf("+%d XP!", n.DeltaXP)), n.Label)
		}),
	})

	log.Debug("environment ready",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("db", dbPath))
	return e, nil
}

func (e *env) openKV(dbPath string) (store.KV, error) {
	sc := e.cfg.Storage
	switch sc.Backend {
	case config.BackendSQLite:
		return e.db.KV(), nil

	case config.BackendMemory:
		return store.NewMemoryKV(), nil

	case config.BackendBadger:
		dir := sc.BadgerDir
		if dir == "" {
			dir = filepath.Join(filepath.Dir(dbPath), "badger")
		}
		b, err := store.OpenBadger(store.BadgerConfig{Dir: dir, Logger: e.log})
		if err != nil {
			return nil, fmt.Errorf("open badger: %w", err)
		}
		e.closers = append(e.closers, b.Close)
		return b, nil

	case config.BackendSupabase:
		s, err := store.NewSupabaseKV(store.SupabaseConfig{
			URL:   sc.SupabaseURL,
			Key:   sc.SupabaseKey,
			Table: sc.SupabaseTable,
		})
		if err != nil {
			return nil, fmt.Errorf("connect supabase: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			fmt.Fprintln(os.Stderr, "warning: close:", err)
		}
	}
	e.closers = nil
}

// coach builds the AI coach, or explains why it is unavailable.
func (e *env) coach(ctx context.Context) (*coach.Service, error) {
	provider, err := llm.NewProviderFromEnv(ctx, e.db.EventRepo(), e.log)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return nil, fmt.Errorf("%w (set QUESTMAP_LLM_PROVIDER and an API key such as ANTHROPIC_API_KEY)", err)
		}
		return nil, err
	}
	return coach.NewService(provider, coach.DefaultConfig(), e.log), nil
}

func (e *env) arena() (*practice.Arena, error) {
	bank, err := practice.DefaultBank()
	if err != nil {
		return nil, err
	}
	return practice.NewArena(e.kv, bank, e.log), nil
}

// roadmapFor returns the named roadmap, or the current one when career is
// empty.
func (e *env) roadmapFor(ctx context.Context, career string) (store.SavedRoadmap, error) {
	if career == "" {
		r, err := e.library.Current(ctx)
		if errors.Is(err, store.ErrRoadmapNotFound) {
			return r, fmt.Errorf("no current roadmap; run `questmap generate` or `questmap import` first")
		}
		return r, err
	}
	return e.library.Get(ctx, career)
}
