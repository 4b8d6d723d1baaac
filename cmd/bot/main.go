// Package main runs the Telegram bot together with its health, metrics
// and status HTTP endpoints.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"bubblemaps-bot/internal/analyzer"
	"bubblemaps-bot/internal/bot"
	"bubblemaps-bot/internal/bubblemaps"
	"bubblemaps-bot/internal/config"
	"bubblemaps-bot/internal/logging"
	"bubblemaps-bot/internal/marketdata"
	"bubblemaps-bot/internal/observability"
	"bubblemaps-bot/internal/orchestrator"
	"bubblemaps-bot/internal/screenshot"
	"bubblemaps-bot/internal/storage"
	"bubblemaps-bot/internal/storage/memory"
	"bubblemaps-bot/internal/storage/migrations"
	pgstore "bubblemaps-bot/internal/storage/postgres"
)

// shutdownTimeout bounds graceful shutdown after the first signal.
const shutdownTimeout = 30 * time.Second

func main() {
	if err := config.LoadEnvFile(""); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(2)
	}

	if err := cfg.ValidateBot(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions, backend, cleanup, err := createSessionStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create session store")
	}
	defer cleanup()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Telegram")
	}
	_ = tgbotapi.SetLogger(logging.Component(log, "telegram"))
	log.WithField("username", api.Self.UserName).Info("Authorized on Telegram")

	graphs := bubblemaps.NewClient(cfg.BubblemapsAPIURL,
		bubblemaps.WithTimeout(cfg.HTTPTimeout),
		bubblemaps.WithAppURL(cfg.BubblemapsAppURL),
	)
	market := marketdata.NewClient(cfg.CMCAPIURL, cfg.CMCAPIKey, marketdata.WithTimeout(cfg.HTTPTimeout))
	if cfg.CMCAPIKey == "" {
		log.Warn("CMC_API_KEY not set, market data requests will be rejected upstream")
	}

	orch := orchestrator.New(orchestrator.Options{
		Graph:    graphs,
		Market:   market,
		Analyzer: analyzer.New(analyzer.Options{PercentageScale: cfg.PercentageScale}),
		Logger:   logging.Component(log, "orchestrator"),
	})

	var renderer bot.Renderer
	if cfg.DevToolsURL != "" {
		renderer = screenshot.New(screenshot.Options{
			DevToolsURL:       cfg.DevToolsURL,
			AppURL:            cfg.BubblemapsAppURL,
			NavigationTimeout: cfg.NavigationTimeout,
			SettleDelay:       cfg.SettleDelay,
			Logger:            logging.Component(log, "screenshot"),
		})
	} else {
		log.Warn("DEVTOOLS_URL not set, screenshots disabled")
	}

	b := bot.New(bot.Options{
		Sender:          api,
		Updates:         api,
		Sessions:        sessions,
		Analyzer:        orch,
		Renderer:        renderer,
		MapURL:          graphs.MapURL,
		PercentageScale: cfg.PercentageScale,
		AnalysisTimeout: cfg.AnalysisTimeout,
		Workers:         cfg.Workers,
		Logger:          logging.Component(log, "bot"),
	})
	if err := b.RegisterCommands(); err != nil {
		log.WithError(err).Warn("Failed to register bot commands")
	}

	st := &status{
		started:     time.Now(),
		username:    api.Self.UserName,
		backend:     backend,
		workers:     cfg.Workers,
		screenshots: renderer != nil,
	}
	observability.MarkStarted()

	srv := newHTTPServer(cfg.MetricsAddr, st)
	if srv != nil {
		go func() {
			log.WithField("addr", cfg.MetricsAddr).Info("Starting HTTP server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("HTTP server error")
			}
		}()
	}

	done := make(chan struct{})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.WithField("signal", sig.String()).Info("Received signal, initiating graceful shutdown")
		st.stopping.Store(true)
		cancel()

		select {
		case sig := <-sigCh:
			log.WithField("signal", sig.String()).Warn("Received second signal, forcing immediate shutdown")
			os.Exit(1)
		case <-time.After(shutdownTimeout):
			log.Error("Graceful shutdown timed out, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	err = b.Run(ctx)
	close(done)

	if srv != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		stop()
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("Bot stopped with error")
	}
	log.Info("Shutdown complete")
}

// createSessionStore selects PostgreSQL when a DSN is configured and the
// in-memory store otherwise.
func createSessionStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (storage.SessionStore, string, func(), error) {
	if cfg.PostgresDSN == "" {
		log.Info("Using in-memory session store")
		return storage.NewInstrumented(memory.NewSessionStore(), "memory"), "memory", func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, "", nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if cfg.Migrate {
		applied, err := migrations.RunPostgresMigrations(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, "", nil, fmt.Errorf("migrate: %w", err)
		}
		log.WithField("files", applied).Info("Applied migrations")
	}

	log.Info("Using PostgreSQL session store")
	return storage.NewInstrumented(pgstore.NewSessionStore(pool), "postgres"), "postgres", pool.Close, nil
}

// status backs the /status endpoint.
type status struct {
	started     time.Time
	username    string
	backend     string
	workers     int
	screenshots bool
	stopping    atomic.Bool
}

// StatusResponse is the JSON response for the /status endpoint.
type StatusResponse struct {
	Status      string    `json:"status"`
	Bot         string    `json:"bot"`
	Started     time.Time `json:"started"`
	Uptime      string    `json:"uptime"`
	Sessions    string    `json:"sessions"`
	Workers     int       `json:"workers"`
	Screenshots bool      `json:"screenshots"`
}

func (s *status) handle(w http.ResponseWriter, _ *http.Request) {
	state := "running"
	if s.stopping.Load() {
		state = "stopping"
	}
	resp := StatusResponse{
		Status:      state,
		Bot:         s.username,
		Started:     s.started,
		Uptime:      time.Since(s.started).Round(time.Second).String(),
		Sessions:    s.backend,
		Workers:     s.workers,
		Screenshots: s.screenshots,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// newHTTPServer serves health, metrics and status. An empty addr disables it.
func newHTTPServer(addr string, st *status) *http.Server {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", st.handle)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
