package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"gatecode/internal/accesscode"
	"gatecode/internal/config"
	"gatecode/internal/database"
	"gatecode/internal/logger"
	"gatecode/internal/payment"
	"gatecode/internal/profile"
	"gatecode/internal/server"
	"gatecode/internal/session"
	"gatecode/internal/storage"
	"gatecode/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lgr := logger.New(cfg.LogLevel, cfg.LogFormat)
	logger.SetDefault(lgr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		lgr.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		lgr.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Sessions
	store := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	sessions := session.NewManager(store, cfg.SessionTTL)
	lgr.Info("Connected to Redis", "addr", cfg.RedisAddr)

	// Object storage (optional; profile uploads need it)
	var storageSvc storage.Service
	if cfg.S3Bucket != "" {
		storageSvc, err = storage.New(ctx, storage.Config{
			Region:    cfg.AWSRegion,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		}, lgr)
		if err != nil {
			lgr.Error("Failed to initialize object storage", "error", err)
			os.Exit(1)
		}
	} else {
		lgr.Warn("S3_BUCKET not set, profile uploads disabled")
	}

	// Access code lifecycle
	codeRepo := accesscode.NewRepository(db)
	codeSvc := accesscode.NewService(codeRepo, accesscode.NewGenerator(), cfg.CodeTTL, cfg.CodeSingleUse, lgr)
	accesscode.StartReaper(ctx, codeSvc, cfg.CodeReapInterval, lgr)
	lgr.Info("Access code lifecycle ready",
		"ttl", cfg.CodeTTL,
		"single_use", cfg.CodeSingleUse,
		"reap_interval", cfg.CodeReapInterval)

	// Payment provider
	provider := payment.NewProvider(payment.Config{
		Mode:         cfg.PayPalMode,
		ClientID:     cfg.PayPalClientID,
		ClientSecret: cfg.PayPalClientSecret,
		ReturnURL:    cfg.FrontendURL + "/success",
		CancelURL:    cfg.FrontendURL + "/cancel",
	}, lgr)
	lgr.Info("Payment provider ready", "mode", cfg.PayPalMode)

	// Handlers
	codeHandler := accesscode.NewHandler(codeSvc, sessions, cfg.SecureCookies, lgr)
	paymentHandler := payment.NewHandler(provider, codeSvc, lgr)
	profileHandler := profile.NewHandler(profile.NewService(profile.NewRepository(db), storageSvc), lgr)
	tokens := user.NewTokenIssuer(cfg.JWTSecret)
	userHandler := user.NewHandler(user.NewRepository(db), tokens, lgr)

	srv := server.New(cfg, db, sessions, store, storageSvc,
		codeHandler, paymentHandler, profileHandler, userHandler, tokens, lgr)

	httpServer := srv.HTTPServer()

	go func() {
		lgr.Info("Server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lgr.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lgr.Info("Shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		lgr.Error("Server forced to shutdown", "error", err)
	}

	lgr.Info("Server stopped")
}
