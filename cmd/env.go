package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/finwise/internal/config"
	"github.com/abhisek/finwise/internal/identity"
	"github.com/abhisek/finwise/internal/lessons"
	"github.com/abhisek/finwise/internal/logging"
	"github.com/abhisek/finwise/internal/metrics"
	"github.com/abhisek/finwise/internal/progress"
	"github.com/abhisek/finwise/internal/store"
)

// env is everything a command needs, built from the resolved config.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	engine  *store.Engine
	users   *identity.Session
	tracker *progress.Tracker
	catalog *lessons.Catalog
}

// loadConfig resolves the configuration for cmd's flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	return config.Load(config.Options{File: file, Flags: cmd.Flags()})
}

// openEnv loads config, the logger, the store engine and the catalog.
// console mirrors logs to stderr for non-interactive commands.
func openEnv(cmd *cobra.Command, console bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logCfg := cfg.LoggingConfig()
	logCfg.Console = console
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return nil, fmt.Errorf("resolve store: %w", err)
	}
	engine, err := store.OpenEngine(cmd.Context(), engineCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", engineCfg.Engine, err)
	}

	catalog, err := lessons.Load()
	if err != nil {
		engine.Close()
		return nil, fmt.Errorf("load lessons: %w", err)
	}

	m := metrics.New()
	users := identity.NewSession(cfg.User)
	logger.Debug("environment ready",
		zap.String("store", engine.Name),
		zap.String("locale", cfg.LocaleTag().String()),
		zap.Bool("signed_in", cfg.User != ""),
	)
	return &env{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		engine:  engine,
		users:   users,
		tracker: progress.NewTracker(engine.Progress, users, logger, m),
		catalog: catalog,
	}, nil
}

// serveMetrics exposes /metrics in the background when configured.
func (e *env) serveMetrics(ctx context.Context) {
	if e.cfg.Metrics.Addr == "" {
		return
	}
	go func() {
		if err := metrics.Serve(ctx, e.cfg.Metrics.Addr, e.metrics, e.logger); err != nil {
			e.logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
}

func (e *env) Close() error {
	_ = e.logger.Sync()
	return e.engine.Close()
}

// requireUser fails early for commands that read or write progress.
func (e *env) requireUser() (string, error) {
	user, ok := e.users.CurrentUser()
	if !ok {
		return "", fmt.Errorf("%w: pass --user or set FINWISE_USER", progress.ErrNotSignedIn)
	}
	return user, nil
}
