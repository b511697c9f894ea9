package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/csg33k/household-census/internal/adapters/sheetapi"
	sqliteadapter "github.com/csg33k/household-census/internal/adapters/sqlite"
	"github.com/csg33k/household-census/internal/census"
	"github.com/csg33k/household-census/internal/config"
	"github.com/csg33k/household-census/internal/dashboard"
	"github.com/csg33k/household-census/internal/handlers"
	"github.com/csg33k/household-census/internal/logging"
	"github.com/csg33k/household-census/internal/middleware"
	"github.com/csg33k/household-census/internal/session"
	"github.com/csg33k/household-census/internal/templates"
	"github.com/csg33k/household-census/internal/websocket"
)

const sweepInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel)

	if cfg.APIURL == "" {
		logger.Warn("CENSUS_API_URL is not set; the dashboard and form will report connection errors")
	}

	journal, err := sqliteadapter.Open(cfg.JournalPath)
	if err != nil {
		logger.Error("failed to open journal", "path", cfg.JournalPath, "err", err)
		os.Exit(1)
	}
	defer journal.Close()

	notice, err := templates.Notice(cfg.FormNotice)
	if err != nil {
		logger.Error("invalid FORM_NOTICE", "err", err)
		os.Exit(1)
	}

	api := sheetapi.NewClient(sheetapi.Config{
		ReadURL:  cfg.APIURL,
		WriteURL: cfg.WriteURL,
		Timeout:  cfg.APITimeout,
	}, logger)
	hub := websocket.NewHub(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	drafts := session.NewStore[*census.Draft](cfg.SessionTTL)
	sessions := session.NewStore[*dashboard.Session](cfg.SessionTTL)
	go drafts.RunSweeper(ctx, sweepInterval, logger, "drafts")
	go sessions.RunSweeper(ctx, sweepInterval, logger, "dashboard")

	h := handlers.New(handlers.Deps{
		Source:   api,
		Census:   census.NewService(api, journal, hub, logger),
		Journal:  journal,
		Live:     websocket.HandleWebSocket(hub, logger),
		Drafts:   drafts,
		Sessions: sessions,
		Labels:   dashboard.NewLabeler(cfg.Labels),
		Notice:   notice,
		Logger:   logger,
	})

	var handler http.Handler = h.Routes()
	handler = middleware.CSRF(cfg.CSRFKey, cfg.CSRFSecure)(handler)
	handler = middleware.RequestLogger(logger)(handler)

	// No write timeout: census API calls run unbounded unless
	// CENSUS_API_TIMEOUT is set, and websocket connections are long-lived.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("household census portal running", "url", "http://localhost:"+cfg.Port, "journal", cfg.JournalPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
