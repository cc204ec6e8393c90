package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/menucraft/menucraft/internal/ai"
	"github.com/menucraft/menucraft/internal/config"
	"github.com/menucraft/menucraft/internal/database"
	"github.com/menucraft/menucraft/internal/docstore"
	"github.com/menucraft/menucraft/internal/logging"
	"github.com/menucraft/menucraft/internal/media"
	"github.com/menucraft/menucraft/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	docs, closeDocs, err := openDocStore(cfg, db, logger)
	if err != nil {
		logger.Error("failed to open menu store", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer closeDocs()

	var aiClient ai.Client
	if cfg.Gemini.APIKey != "" {
		aiClient = ai.NewGemini(cfg.Gemini)
	} else {
		logger.Warn("MENUCRAFT_GEMINI_API_KEY not set, AI features use fallbacks")
	}

	mediaStore := media.NewStore(cfg.S3)
	if !mediaStore.Configured() {
		logger.Info("S3 storage not configured, images are stored inline")
	}

	srv := server.New(db, docs, server.Options{
		BaseURL:       cfg.BaseURL,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: strings.HasPrefix(cfg.BaseURL, "https://"),
		AI:            aiClient,
		Media:         mediaStore,
	}, logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
				if n := srv.EvictIdleSessions(30 * time.Minute); n > 0 {
					logger.Debug("evicted idle menu sessions", "count", n)
				}
			}
		}
	}()

	go func() {
		logger.Info("menucraft running", "addr", httpServer.Addr, "base_url", cfg.BaseURL, "store", cfg.Store)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	srv.Wait()
}

func openDocStore(cfg config.Config, db *sql.DB, logger *slog.Logger) (docstore.Store, func(), error) {
	if cfg.Store != config.StoreMongo {
		return docstore.NewSQLite(db), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	client, err := docstore.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	store := docstore.NewMongo(client.Database(cfg.MongoDB))
	if err := store.EnsureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, err
	}
	logger.Info("using mongo menu store", "database", cfg.MongoDB)
	return store, func() { client.Disconnect(context.Background()) }, nil
}
