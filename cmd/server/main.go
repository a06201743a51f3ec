package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/DCWS-dev/ai-landing/internal/auth"
	"github.com/DCWS-dev/ai-landing/internal/config"
	"github.com/DCWS-dev/ai-landing/internal/notifier"
	"github.com/DCWS-dev/ai-landing/internal/prodamus"
	"github.com/DCWS-dev/ai-landing/internal/server"
	"github.com/DCWS-dev/ai-landing/internal/storage"
	"github.com/DCWS-dev/ai-landing/internal/telegram"
	"github.com/DCWS-dev/ai-landing/internal/wayforpay"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	// Load .env file for local runs
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found")
	}

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage: hosted Redis in production, SQLite for local runs
	var store storage.Store
	if cfg.RedisURL != "" {
		store, err = storage.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("init redis store", zap.Error(err))
		}
		logger.Info("storage initialized", zap.String("backend", "redis"))
	} else {
		store, err = storage.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			logger.Fatal("init sqlite store", zap.Error(err))
		}
		logger.Info("storage initialized", zap.String("backend", "sqlite"), zap.String("path", cfg.DBPath))
	}
	defer store.Close()

	authSvc := auth.NewService(cfg.AuthSecret, cfg.AdminPassword)
	pd := prodamus.NewClient(cfg.ProdamusFormURL, cfg.ProdamusSecretKey, cfg.SiteURL)
	wfp := wayforpay.NewClient(cfg.WayForPayMerchantAccount, cfg.WayForPaySecretKey,
		cfg.MerchantDomain(), cfg.WayForPayPayURL, cfg.SiteURL)

	// Telegram is optional: without a token the bot webhook still
	// acknowledges updates and admin notifications are skipped.
	var sender telegram.Sender
	var updates server.UpdateHandler
	if cfg.BotToken != "" {
		bot, err := telegram.New(cfg.BotToken)
		if err != nil {
			logger.Fatal("init telegram bot", zap.Error(err))
		}
		sender = bot
		updates = telegram.NewHandler(store, bot, logger)
		logger.Info("telegram bot initialized", zap.String("username", cfg.BotUsername))
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN not set, bot disabled")
	}

	notify := notifier.New(sender, cfg.AdminChatID, cfg.BotUsername, logger)

	srv := server.New(cfg, store, authSvc, pd, wfp, notify, updates, logger)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
		cancel()
	}()

	logger.Info("server started", zap.String("port", cfg.Port))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server failed", zap.Error(err))
	}
}
