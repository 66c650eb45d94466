package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/config"
	"github.com/abhisek/satprep/internal/engine"
	"github.com/abhisek/satprep/internal/llm"
	"github.com/abhisek/satprep/internal/store"
)

// appEnv is everything a command needs: resolved settings, the open
// store and the engine on top of it.
type appEnv struct {
	settings config.Settings
	logger   *slog.Logger
	store    *store.Store
	engine   *engine.Engine
	learner  string
	lang     catalog.Lang
}

// loadSettings resolves defaults < config file < env < flags.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := config.LoadDotEnv(envFile); err != nil {
			return config.Settings{}, err
		}
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	f, err := config.LoadFile(path)
	if err != nil {
		return config.Settings{}, err
	}

	s, err := config.Resolve(f, os.Getenv)
	if err != nil {
		return config.Settings{}, fmt.Errorf("resolve config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		s.DBPath = p
	}
	return s, nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func resolveLearner(cmd *cobra.Command) string {
	if l, _ := cmd.Flags().GetString("learner"); l != "" {
		return l
	}
	if l := os.Getenv("SATPREP_LEARNER"); l != "" {
		return l
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}

func resolveLang(cmd *cobra.Command) (catalog.Lang, error) {
	l, _ := cmd.Flags().GetString("lang")
	return catalog.ParseLang(l)
}

// openEnv opens the store, seeds an empty catalog and builds the engine.
// The caller must Close the returned env.
func openEnv(cmd *cobra.Command) (*appEnv, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	lang, err := resolveLang(cmd)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd)

	if err := store.EnsureDir(settings.DBPath); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	st, err := store.Open(settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	eng, err := engine.New(ctx, engine.ReposFrom(st), engine.Options{
		Logger:        logger,
		WeakThreshold: settings.Engine.WeakThreshold,
		OverrideWeak:  settings.Engine.OverrideWeak,
		NoHistory:     settings.Engine.NoHistory,
		Seed:          settings.Engine.Seed,
	})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("start engine: %w", err)
	}

	seed, err := catalog.Seed()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("read seed catalog: %w", err)
	}
	if n, err := eng.EnsureCatalog(ctx, seed); err != nil {
		st.Close()
		return nil, err
	} else if n > 0 {
		logger.Info("seeded empty catalog", "questions", n)
	}

	return &appEnv{
		settings: settings,
		logger:   logger,
		store:    st,
		engine:   eng,
		learner:  resolveLearner(cmd),
		lang:     lang,
	}, nil
}

// Close closes the store.
func (a *appEnv) Close() error {
	return a.store.Close()
}

// provider builds the LLM provider with the audit trail written to the
// store.
func (a *appEnv) provider(ctx context.Context) (llm.Provider, error) {
	p, err := llm.New(ctx, a.settings.LLM, a.store.EventRepo(), a.logger)
	if err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	return p, nil
}
