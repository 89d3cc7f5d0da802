// Command btcconvert is the terminal front end for converting between Bitcoin
// and real-world items. It loads configuration, validates it, opens the log
// file, sets up signal handling and runs the interactive UI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/alanyoungcy/btcconvert/internal/app"
	"github.com/alanyoungcy/btcconvert/internal/config"
)

var colorFatal = color.New(color.FgRed, color.Bold)

func main() {
	configPath := flag.String("config", "", "path to TOML configuration file (defaults only when empty)")
	flag.Parse()

	// Load configuration.
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("failed to load config %q: %v", *configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fatal("btcconvert needs an interactive terminal")
	}

	// The UI owns stdout, so structured logs go to a file.
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fatal("open log file: %v", err)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: parseLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("btcconvert starting",
		slog.String("config", *configPath),
		slog.Any("settings", config.RedactedConfig(cfg)),
	)

	// Create the application.
	application := app.New(cfg, logger)
	defer application.Close()

	// Setup signal handling for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run the application.
	if err := application.Run(ctx); err != nil {
		// context.Canceled is expected on clean shutdown.
		if errors.Is(err, context.Canceled) {
			logger.Info("application shut down gracefully")
		} else {
			logger.Error("application exited with error",
				slog.String("error", err.Error()),
			)
			application.Close()
			fatal("%v", err)
		}
	}

	logger.Info("btcconvert stopped")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func fatal(format string, args ...any) {
	colorFatal.Fprint(os.Stderr, "fatal: ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
