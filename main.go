// housequant serves housing price predictions from a model and scaler
// trained by cmd/train_model. Artifacts are loaded once at startup and are
// immutable for the process lifetime.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"housequant/config"
	"housequant/db"
	qhttp "housequant/http"
	"housequant/logger"
	"housequant/monitoring"
)

func main() {
	configPath := flag.String("config", "config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = config.FromEnv()
	}

	cleanup := logger.Init(cfg.Log.Level, cfg.Log.File)
	defer cleanup()
	log := zap.L()

	if err := db.InitDB(cfg.Database.Path); err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()
	log.Info("database initialized", zap.String("path", cfg.Database.Path))

	stats := monitoring.NewStats()
	hub := monitoring.NewHub(stats)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	// Startup-time load: serving never begins with unloaded artifacts.
	predictor, err := qhttp.NewPredictor(cfg.Model.Path, cfg.Model.ScalerPath, stats)
	if err != nil {
		log.Fatal("failed to load model artifacts", zap.Error(err))
	}
	qhttp.SetPredictor(predictor)
	qhttp.SetMonitorHub(hub)

	serverConfig := qhttp.DefaultServerConfig()
	serverConfig.Port = cfg.HTTP.Port
	if cfg.HTTP.TimeoutSeconds > 0 {
		serverConfig.Timeout = time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	}
	server := qhttp.NewServer(serverConfig)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	stopWatch, err := config.Watch(*configPath, func(next *config.Config) {
		logger.SetLevel(next.Log.Level)
		log.Info("config reloaded", zap.String("log_level", next.Log.Level))
	})
	if err != nil {
		log.Warn("config watch disabled", zap.Error(err))
	} else {
		defer stopWatch()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	if err := server.Stop(); err != nil {
		log.Warn("server forced to shutdown", zap.Error(err))
	}
}
