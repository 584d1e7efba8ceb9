package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paulmach/orb"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/map-editor/internal/catalog"
	"github.com/map-editor/internal/config"
	httpDelivery "github.com/map-editor/internal/delivery/http"
	"github.com/map-editor/internal/delivery/http/handler"
	"github.com/map-editor/internal/domain/datatype"
	"github.com/map-editor/internal/editor"
	"github.com/map-editor/internal/events"
	"github.com/map-editor/internal/pkg/logger"
	redisRepo "github.com/map-editor/internal/repository/redis"
	"github.com/map-editor/internal/session"
	"github.com/map-editor/internal/worker"
	"github.com/map-editor/internal/worker/reaper"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Map Editor API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Bool("events_stream", cfg.Events.StreamEnabled),
	)

	// 3. Load type catalog
	var types *datatype.Registry
	if cfg.Catalog.Path != "" {
		types, err = catalog.LoadFile(cfg.Catalog.Path)
	} else {
		types, err = catalog.Default()
	}
	if err != nil {
		log.Fatal("Failed to load type catalog", zap.Error(err))
	}
	log.Info("Type catalog loaded",
		zap.String("path", cfg.Catalog.Path),
		zap.Int("object_types", len(types.ObjectTypes())))

	workerManager := worker.NewWorkerManager(log)

	// 4. Redis Stream for editor events (optional)
	var (
		sink        events.Sink
		redisClient *goredis.Client
	)
	if cfg.Events.StreamEnabled {
		redisClient, err = redisRepo.NewClient(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}

		streamSink := events.NewStreamSink(cfg.Events.BufferSize, log)
		streamRepo := redisRepo.NewStreamRepository(redisClient, log)
		workerManager.Register(events.NewPublisherWorker(
			streamSink,
			streamRepo,
			cfg.Events.StreamName,
			cfg.Events.PublishTimeout,
			log,
		))
		sink = streamSink
	}

	// 5. Session registry
	editorCfg := editor.Config{
		MinZoom:             cfg.Editor.MinZoom,
		MinEditZoom:         cfg.Editor.MinEditZoom,
		SnapDistancePx:      cfg.Editor.SnapDistancePx,
		VertexPriorityKm:    cfg.Editor.VertexPriorityKm,
		MinVertexSeparation: cfg.Editor.MinVertexSeparation,
		HoverRadiusPx:       cfg.Editor.HoverRadiusPx,
	}
	sessions := session.NewRegistry(editorCfg, session.Defaults{
		Zoom:   cfg.Editor.InitialZoom,
		Center: orb.Point{cfg.Editor.InitialCenterLon, cfg.Editor.InitialCenterLat},
	}, sink, cfg.Session.MaxSessions, log)

	workerManager.Register(reaper.NewSessionReaperWorker(
		sessions,
		cfg.Session.TTL,
		cfg.Session.ReapInterval,
		log,
	))

	// 6. Start background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 7. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewSessionHandler(sessions, log),
		handler.NewCatalogHandler(types, sessions, log),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	// Воркеры останавливаются после сервера, чтобы издатель дописал последние события
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
