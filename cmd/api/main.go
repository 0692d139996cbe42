package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis"

	"github.com/xpanvictor/voxqa/internal/app"
	"github.com/xpanvictor/voxqa/internal/config"
	"github.com/xpanvictor/voxqa/internal/database"
	"github.com/xpanvictor/voxqa/internal/server"
	"github.com/xpanvictor/voxqa/pkg/Logger"
)

// @title VoxQA API
// @version 1.0
// @description Upload interview audio, get a transcript and an AI answer pushed over WebSocket.
// @BasePath /api

// This is the main entry point for the API server.
// Loads in all system components
// Exposes functionalities
func main() {
	// fetch cfg
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// load global logger
	logger := Logger.New(cfg.Debug)
	logger.Info("Logger initialized")

	// optional event bus
	var rc *redis.Client
	if cfg.Redis.Enabled {
		rc, err = database.NewRedis(cfg.Redis)
		if err != nil {
			logger.Fatalf("Failed to connect to redis: %v", err)
		}
	}

	ctx := context.Background()
	application, err := app.NewApp(ctx, cfg, logger, rc)
	if err != nil {
		logger.Fatalf("Failed to build application: %v", err)
	}

	// compose router
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	server.InitializeRoutes(cfg, router, application.GetServerDependencies())

	// listen with graceful exit
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
	}
	go func() {
		logger.Infof("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server exiting %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// 5 secs then cancel
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown err %v", err)
	}
	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Task shutdown err %v", err)
	}
	if err := application.Close(); err != nil {
		logger.Errorf("Close err %v", err)
	}
	logger.Info("Shutdown system")
}
