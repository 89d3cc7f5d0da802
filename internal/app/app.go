// Package app provides the top-level lifecycle of the btcconvert client. It
// wires the pricing client, catalog, caches and notifier, builds the
// controllers and runs the terminal UI until the user quits or the context is
// cancelled.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/btcconvert/internal/config"
	"github.com/alanyoungcy/btcconvert/internal/controller"
	"github.com/alanyoungcy/btcconvert/internal/tui"
)

// App is the root application object. It owns the configuration, logger, and a
// list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()

	// bubbletea program options
	programOptions []tea.ProgramOption
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:            cfg,
		logger:         logger.With(slog.String("component", "app")),
		programOptions: []tea.ProgramOption{tea.WithAltScreen()},
	}
}

// Run wires all dependencies, starts the UI and blocks until it exits.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("backend", a.cfg.Backend.BaseURL),
		slog.String("cache", a.cfg.Cache.Backend),
		slog.Duration("debounce", a.cfg.UI.Debounce.Duration),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	conversion := controller.NewConversionController(deps.Catalog, a.cfg.UI.Debounce.Duration, a.logger)
	model := tui.New(ctx, tui.Deps{
		Catalog:    deps.Catalog,
		Converter:  deps.Converter,
		History:    deps.History,
		Notifier:   deps.Notifier,
		Conversion: conversion,
		Charts:     controller.NewHistoryController(conversion, time.Now(), a.logger),
		Logger:     a.logger,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	program := tea.NewProgram(model, a.programOptions...)

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("app: run ui: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		program.Quit()
		return nil
	})
	return g.Wait()
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
