package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/me/servq/internal/archive"
	"github.com/me/servq/internal/catalog"
	"github.com/me/servq/internal/config"
	"github.com/me/servq/internal/intake"
	"github.com/me/servq/internal/logging"
	"github.com/me/servq/internal/notify"
	"github.com/me/servq/internal/scheduler"
	"github.com/me/servq/internal/server"
	"github.com/me/servq/pkg/model"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "", "Log format (auto, text, json)")
	policy := flag.String("policy", "", "Initial policy (overrides config)")
	archiveDSN := flag.String("archive", "", "Archive SQLite DSN (overrides config)")
	autostart := flag.Bool("autostart", false, "Start the dispatch loop immediately")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Listen = *addr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if *policy != "" {
		cfg.Policy = *policy
	}
	if *archiveDSN != "" {
		cfg.ArchiveDSN = *archiveDSN
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	// Build the room catalog. Overlapping zone specs are fatal here, before
	// any request can be admitted.
	cat, err := catalog.New(cfg.ZoneSpecs(), cfg.TierTable())
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialize catalog: %v\n", err)
		os.Exit(1)
	}
	logger.Info("catalog ready", "rooms", cat.Len())

	// Open the completion ledger.
	arc, err := archive.New(cfg.ArchiveDSN, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open archive: %v\n", err)
		os.Exit(1)
	}
	defer arc.Close()
	if err := arc.Migrate(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate archive: %v\n", err)
		os.Exit(1)
	}
	logger.Info("archive ready", "dsn", cfg.ArchiveDSN)

	// Presentation sinks: structured log + SSE broadcaster.
	broadcaster := notify.NewBroadcaster(logger)
	sink := notify.Multi{notify.NewLogSink(logger), broadcaster}

	initialPolicy, err := model.ParsePolicy(cfg.Policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	core := scheduler.NewCore(cat, logger,
		scheduler.WithSink(sink),
		scheduler.WithPolicy(initialPolicy),
		scheduler.WithQuantum(cfg.TimeQuantum),
	)

	loop := scheduler.NewLoop(core, cfg.WorkerPools(), scheduler.Config{
		PollInterval:   cfg.PollInterval,
		MinuteInterval: cfg.MinuteInterval,
	}, logger,
		scheduler.WithLoopSink(sink),
		scheduler.WithRecorder(arc),
	)

	// Seed demonstration tasks, if configured.
	for _, seed := range cfg.Seed {
		if _, err := core.Admit(seed.Room, seed.Type, seed.Minutes, seed.Description); err != nil {
			logger.Warn("seed task rejected", "room", seed.Room, "error", err)
		}
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional scheduled auto-intake.
	var gen *intake.Generator
	if cfg.Intake.Enabled {
		presets := make([]intake.Preset, 0, len(cfg.Intake.Presets))
		for _, p := range cfg.Intake.Presets {
			presets = append(presets, intake.Preset{
				Tier:    model.Tier(p.Tier),
				Type:    p.Type,
				Minutes: p.Minutes,
			})
		}
		gen, err = intake.New(core, presets, cfg.Intake.Schedule, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		gen.Start()
	}

	if *autostart {
		loop.Start(ctx)
	}

	srv := server.New(cat, core, loop, arc, broadcaster, logger,
		server.WithLoopContext(ctx))

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv.Handler(),
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Listen, "policy", initialPolicy)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Stop intake and dispatch before the HTTP server.
	if gen != nil {
		gen.Stop()
	}
	loop.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
