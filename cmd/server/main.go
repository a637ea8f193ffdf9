package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/turismo/internal/config"
	"github.com/foxxcyber/turismo/internal/handlers"
	"github.com/foxxcyber/turismo/internal/logger"
	"github.com/foxxcyber/turismo/internal/middleware"
	"github.com/foxxcyber/turismo/internal/services"
	"github.com/foxxcyber/turismo/internal/store"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logger.New(logger.FromConfig(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := store.New(cfg.DataFile, cfg.GroupedFile, log)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: cfg.IsProduction(),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, X-Request-ID",
		ExposeHeaders: "Location, X-Request-ID",
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS",
	}))

	h := handlers.New(s, cfg, log)

	// Snapshot storage is optional
	if cfg.SnapshotsConfigured() {
		snapshots, err := services.NewSnapshotService(
			cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL,
		)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize snapshot storage")
		} else {
			bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := snapshots.EnsureBucket(bucketCtx); err != nil {
				log.WithError(err).Warn("Failed to ensure S3 bucket exists")
			}
			cancel()
			h.WithSnapshots(snapshots)
			log.WithField("bucket", snapshots.GetBucketName()).Info("Snapshot storage initialized")
		}
	} else if cfg.S3Enabled {
		log.Warn("S3 credentials not configured, snapshots disabled")
	}

	h.Register(app)

	if cfg.WatchFiles {
		watcher, err := services.NewFileWatcher(log, cfg.DataFile, cfg.GroupedFile)
		if err != nil {
			log.WithError(err).Warn("Failed to watch data files")
		} else {
			go watcher.Run(ctx, nil)
		}
	}

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Error("Shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":    cfg.Port,
		"data":    cfg.DataFile,
		"grouped": cfg.GroupedFile,
	}).Info("Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
