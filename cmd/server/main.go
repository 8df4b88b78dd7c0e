package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mirzamitdinovs/vocab-master/internal/api"
	"github.com/mirzamitdinovs/vocab-master/internal/config"
	"github.com/mirzamitdinovs/vocab-master/internal/db"
	"github.com/mirzamitdinovs/vocab-master/internal/logger"
	"github.com/mirzamitdinovs/vocab-master/internal/repository/sqlstore"
	"github.com/mirzamitdinovs/vocab-master/internal/scheduler"
	"github.com/mirzamitdinovs/vocab-master/internal/services"
	"github.com/mirzamitdinovs/vocab-master/internal/tts"
	"github.com/mirzamitdinovs/vocab-master/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Vocab Master Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_driver=%s", cfg.DBDriver)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("session_word_limit=%d", cfg.SessionWordLimit)
	log.Debug("audio_dir=%s", cfg.AudioDir)
	log.Debug("audio_workers=%d queue=%d batch=%d", cfg.AudioWorkerCount, cfg.AudioQueueSize, cfg.AudioBatchSize)
	log.Debug("maintenance_hour=%d", cfg.MaintenanceHour)

	database, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	catalogRepo := sqlstore.NewCatalogRepository(database.DB)
	userRepo := sqlstore.NewUserRepository(database.DB)
	progressRepo := sqlstore.NewProgressRepository(database.DB)

	userService := services.NewUserService(userRepo, progressRepo, cfg.AdminPhone)
	catalogService := services.NewCatalogService(catalogRepo, userRepo)
	studyService := services.NewStudyService(progressRepo, catalogRepo, userRepo, cfg.SessionWordLimit)
	importService := services.NewImportService(catalogRepo, userRepo)

	ttsClient := tts.NewClient(cfg.AudioTTSAPIKey, cfg.AudioTTSLanguage, cfg.AudioDir)
	audioJob := &tts.BackfillJob{
		Catalog:   catalogRepo,
		Client:    ttsClient,
		BatchSize: cfg.AudioBatchSize,
	}
	audioPool := worker.NewPool(cfg.AudioWorkerCount, cfg.AudioQueueSize)

	srv := &api.Server{
		Users:      userService,
		Catalog:    catalogService,
		Study:      studyService,
		Imports:    importService,
		AudioPool:  audioPool,
		AudioJob:   audioJob,
		CORSOrigin: cfg.CORSOrigin,
	}

	ctx, cancel := context.WithCancel(context.Background())
	audioPool.Start(ctx)

	sched := scheduler.New(audioPool, audioJob, database)
	sched.Start(cfg.MaintenanceHour)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	sched.Stop()
	cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	audioPool.Stop()

	log.Info("===========================================")
	log.Info("Vocab Master Server Stopped")
	log.Info("===========================================")
}
