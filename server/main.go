package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/phambaophuc/el-inspector/internal/config"
	"github.com/phambaophuc/el-inspector/internal/http/handlers"
	"github.com/phambaophuc/el-inspector/internal/http/routes"
	"github.com/phambaophuc/el-inspector/internal/services/analysis"
	"github.com/phambaophuc/el-inspector/internal/services/inspection"
	"github.com/phambaophuc/el-inspector/internal/services/processor"
	"github.com/phambaophuc/el-inspector/internal/services/queue"
	"github.com/phambaophuc/el-inspector/internal/services/storage"
	"github.com/phambaophuc/el-inspector/internal/session"
	"go.uber.org/zap"
)

const sweepInterval = 5 * time.Minute

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize services
	imageProcessor := processor.NewImageProcessor(processor.Options{
		MaxFileSize:  cfg.Image.MaxFileSize,
		MaxDimension: cfg.Image.MaxDimension,
		Quality:      cfg.Image.JPEGQuality,
		MaxPixels:    cfg.Image.MaxPixels,
	})

	provider, err := analysis.NewProvider(cfg.Analysis)
	if err != nil {
		logger.Fatal("Failed to initialize analysis provider", zap.Error(err))
	}
	if cfg.Analysis.Credential() == "" {
		logger.Warn("API_KEY is not set, analysis requests will fail until it is configured")
	}

	client := analysis.NewClient(provider, analysis.ClientOptions{
		Model:       cfg.Analysis.Model,
		Temperature: cfg.Analysis.Temperature,
		Timeout:     cfg.Analysis.Timeout,
	}, logger)

	stats := make(map[string]handlers.StatsFunc)

	var store session.Store
	if cfg.Redis.Addr != "" {
		redisStore, err := storage.NewSessionStore(cfg)
		if err != nil {
			logger.Fatal("Failed to initialize session store", zap.Error(err))
		}
		defer redisStore.Close()
		store = redisStore
		stats["session_store"] = redisStore.GetStats
	} else {
		memoryStore := session.NewMemoryStore(cfg.Session.TTL)
		memoryStore.StartSweeper(ctx, sweepInterval)
		store = memoryStore
		logger.Info("REDIS_ADDR not set, keeping sessions in memory")
	}

	var (
		dispatcher queue.Dispatcher
		queueSvc   *queue.QueueService
		local      *queue.LocalDispatcher
	)
	if cfg.RabbitMQ.URL != "" {
		queueSvc, err = queue.NewQueueService(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to initialize queue service", zap.Error(err))
		}
		defer queueSvc.Close()
		dispatcher = queueSvc
		stats["queue"] = func(context.Context) (map[string]interface{}, error) {
			return queueSvc.GetQueueStats()
		}
	} else {
		local = queue.NewLocalDispatcher(cfg.Analysis.Timeout+5*time.Second, logger)
		dispatcher = local
		logger.Info("RABBITMQ_URL not set, running analyses in process")
	}

	inspectionSvc := inspection.NewService(store, imageProcessor, client, dispatcher, logger)

	if queueSvc != nil {
		for i := 1; i <= cfg.RabbitMQ.Workers; i++ {
			if err := queueSvc.StartWorker(ctx, i, inspectionSvc); err != nil {
				logger.Fatal("Failed to start worker", zap.Int("worker_id", i), zap.Error(err))
			}
		}
	}
	if local != nil {
		local.Bind(inspectionSvc)
	}

	// Initialize handlers
	imageHandler := handlers.NewImageHandler(inspectionSvc, imageProcessor, client, logger, cfg)
	for name, fn := range stats {
		imageHandler.RegisterStats(name, fn)
	}

	engine, err := routes.NewRouter(imageHandler, cfg, logger).SetupRoutes()
	if err != nil {
		logger.Fatal("Failed to set up routes", zap.Error(err))
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      engine,
	}

	// Start server
	go func() {
		logger.Info("Starting server",
			zap.String("addr", server.Addr),
			zap.String("provider", client.ProviderName()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	<-ctx.Done()

	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if local != nil {
		waitForJobs(shutdownCtx, local, logger)
	}

	logger.Info("Server exited")
}

// waitForJobs lets in-process analyses finish until ctx expires.
func waitForJobs(ctx context.Context, local *queue.LocalDispatcher, logger *zap.Logger) {
	done := make(chan struct{})
	go func() {
		local.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("Abandoning running analyses", zap.Error(ctx.Err()))
	}
}
