package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lzytourist/digital-classroom/internal/cache"
	"github.com/lzytourist/digital-classroom/internal/config"
	"github.com/lzytourist/digital-classroom/internal/events"
	"github.com/lzytourist/digital-classroom/internal/handlers"
	"github.com/lzytourist/digital-classroom/internal/mailer"
	"github.com/lzytourist/digital-classroom/internal/repositories/postgres"
	"github.com/lzytourist/digital-classroom/internal/services"
	"github.com/lzytourist/digital-classroom/internal/storage"
	"github.com/lzytourist/digital-classroom/internal/utils"
	"github.com/lzytourist/digital-classroom/internal/validator"
	"github.com/lzytourist/digital-classroom/pkg"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := pkg.Migrate(db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	repo := postgres.NewRepository(db)

	// Redis is optional; the roster cache degrades to a no-op when it is
	// unreachable.
	var cacheService cache.CacheService = cache.NoopCache{}
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, logger)
	}

	var publisher events.EventPublisher
	kafkaPublisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
		KafkaBrokers: cfg.KafkaBrokers,
		TopicName:    cfg.EventTopic,
		Logger:       logger,
	})
	if err != nil {
		logger.Warn("kafka unavailable, events will not leave the process", "error", err)
		publisher = events.NewMockEventPublisher(logger)
	} else {
		publisher = kafkaPublisher
	}
	defer publisher.Close()

	mail := newMailer(cfg, logger)

	v := validator.New()
	fileStorage := storage.NewDiskStorage(cfg.MediaDir)

	accountService := services.NewAccountService(repo, logger, v, publisher, cacheService)
	authService := services.NewAuthService(repo, logger, v)
	recoveryService := services.NewRecoveryService(repo, logger, v, mail, publisher)
	profileService := services.NewProfileService(repo, logger, v, cacheService)
	classroomService := services.NewClassroomService(repo, logger, v, publisher)

	router := gin.New()
	router.Use(gin.Recovery())

	handlerManager := handlers.NewHandlerManager(
		accountService,
		authService,
		recoveryService,
		profileService,
		classroomService,
		fileStorage,
		utils.NewSlogLogger(logger),
	)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErrors:
		logger.Error("http server stopped unexpectedly", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("http server stopped")
}

func newMailer(cfg *config.Config, logger *slog.Logger) mailer.Mailer {
	if cfg.MailProvider == "sendgrid" && cfg.SendgridKey != "" {
		return mailer.NewSendgridMailer(cfg.SendgridKey, cfg.MailFromEmail, cfg.MailFromName)
	}
	return mailer.NewLogMailer(logger)
}

func newLogger(environment string) *slog.Logger {
	level := slog.LevelInfo
	if environment != "production" {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
