package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/finwise/internal/app"
	"github.com/abhisek/finwise/internal/coach"
	"github.com/abhisek/finwise/internal/llm"
	"github.com/abhisek/finwise/internal/screen"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()
	e.serveMetrics(ctx)

	// The coach is optional; the app works without it.
	provider, err := llm.NewProvider(ctx, e.cfg.LLM, llm.Deps{
		Events:  e.engine.Events,
		Logger:  e.logger,
		Metrics: e.metrics,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Coach explanations will be unavailable.")
		e.logger.Warn("llm provider disabled", zap.Error(err))
		provider = nil
	}

	svc := &screen.Services{
		Catalog:  e.catalog,
		Locale:   e.cfg.LocaleTag(),
		Currency: e.cfg.Currency,
		Users:    e.users,
		Tracker:  e.tracker,
		Events:   e.engine.Events,
		Coach:    coach.NewService(provider, coach.DefaultConfig(), e.logger.Named("coach")),
		Notifier: app.CompletionNotifier(e.tracker, e.engine.Events, e.users, e.logger),
		Player:   e.cfg.PlayerConfig(),
		Logger:   e.logger,
		Metrics:  e.metrics,
	}

	e.logger.Info("starting tui", zap.String("store", e.engine.Name))
	return app.Run(ctx, svc)
}
