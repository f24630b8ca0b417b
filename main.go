package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coleta-agenda/commands"
	"coleta-agenda/config"
	"coleta-agenda/models"
	"coleta-agenda/routes"
	"coleta-agenda/seeders"
	"coleta-agenda/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "coleta-agenda"

func main() {
	cmd := "serve"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	cfg, envLoaded := config.Load()
	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat, serviceName)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	if !envLoaded {
		logger.Info("no .env file found, using process environment")
	}

	switch cmd {
	case "serve":
		err = serve(cfg, logger)
	case "seed":
		err = seed(cfg, logger)
	case "create-admin":
		err = createAdmin(cfg, logger, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (use serve, seed or create-admin)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal("command failed", zap.String("command", cmd), zap.Error(err))
	}
}

func openDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := config.ConnectDB(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	db, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		logger.Warn("API_KEY not set, chatbot routes require a bearer token")
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := routes.SetupRouter(routes.Deps{
		Config:   cfg,
		DB:       db,
		Log:      logger,
		Notifier: services.NewNotifier(db, logger, cfg.Twilio),
	})
	printRoutes(r, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server stopped")
	return nil
}

func seed(cfg *config.Config, logger *zap.Logger) error {
	db, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	if _, err := seeders.SeedDefaultAdmin(db, logger, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}
	_, err = commands.SuggestJWTSecret(cfg.JWTSecret, os.Stdout)
	return err
}

func createAdmin(cfg *config.Config, logger *zap.Logger, args []string) error {
	opts, err := commands.ParseCreateAdminFlags(args)
	if err != nil {
		return err
	}
	db, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	admins := services.NewAdminService(db, logger, services.TokenIssuer{Secret: cfg.JWTSecret, TTL: cfg.JWTExpiry})
	return commands.CreateAdmin(context.Background(), admins, opts, commands.TerminalPassword, os.Stdout)
}

func printRoutes(r *gin.Engine, logger *zap.Logger) {
	for _, route := range r.Routes() {
		logger.Debug("route", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}
