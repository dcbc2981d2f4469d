package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"warehouse-inventory-api/internal/client"
	"warehouse-inventory-api/internal/config"
	"warehouse-inventory-api/internal/dashboard"
	"warehouse-inventory-api/internal/repository"
	"warehouse-inventory-api/internal/server"
	"warehouse-inventory-api/internal/ws"
	"warehouse-inventory-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	// 2. Setup Logger
	zlog, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// 3. Setup Store
	store, err := repository.Open(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open store", zap.Error(err))
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(zlog)
	go wsHub.Run()

	// 5. Dashboard
	var dash *fiber.App
	if cfg.Dashboard.Enabled {
		api := client.New(cfg.Dashboard.APIURL, cfg.Store.Timeout)
		shell, err := dashboard.NewShell("/dashboard", server.Resources(cfg), api, zlog)
		if err != nil {
			zlog.Error("dashboard disabled", zap.Error(err))
		} else {
			dash = shell.App()
		}
	}

	// 6. Setup Fiber
	srv := server.New(server.Deps{
		Config:    cfg,
		Log:       zlog,
		Store:     store,
		Hub:       wsHub,
		Dashboard: dash,
	})
	zlog.Info("resource routers loaded", zap.Strings("resources", srv.Mounted()))

	// 7. Graceful Shutdown
	go func() {
		if err := srv.Listen(":" + cfg.Server.Port); err != nil {
			zlog.Panic("server stopped", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
	wsHub.Stop()
	<-wsHub.Done()
	if err := store.Close(); err != nil {
		zlog.Error("failed to close store", zap.Error(err))
	}

	zlog.Info("server exited")
}
