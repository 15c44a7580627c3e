package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	httpctx "github.com/dtroode/hypecard-server/internal/api/http/context"
	"github.com/dtroode/hypecard-server/internal/api/http/middleware"
	"github.com/dtroode/hypecard-server/internal/api/http/router"
	"github.com/dtroode/hypecard-server/internal/billing/revenuecat"
	rediscache "github.com/dtroode/hypecard-server/internal/cache/redis"
	"github.com/dtroode/hypecard-server/internal/config"
	"github.com/dtroode/hypecard-server/internal/logger"
	"github.com/dtroode/hypecard-server/internal/messaging/kafka"
	"github.com/dtroode/hypecard-server/internal/model"
	"github.com/dtroode/hypecard-server/internal/provider"
	"github.com/dtroode/hypecard-server/internal/provider/tavus"
	"github.com/dtroode/hypecard-server/internal/repository/postgres"
	"github.com/dtroode/hypecard-server/internal/server"
	"github.com/dtroode/hypecard-server/internal/service"
	storage "github.com/dtroode/hypecard-server/internal/storage/minio"
	"github.com/dtroode/hypecard-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const authLimiterTTL = 10 * time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithFile(cfg.LogLevel, logger.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	if cfg.AppEnv == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Billing.SkipSignature {
		logger.Warn("billing webhook signature verification is disabled")
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, postgres.PoolOptions{
		MaxConns:          cfg.Database.MaxConns,
		HealthCheckPeriod: cfg.Database.HealthCheckPeriod,
	})
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	sqlDB := postgres.OpenSQL(db)
	defer sqlDB.Close()

	userRepo := postgres.NewUserRepository(db)
	videoRepo := postgres.NewVideoRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	webhookEventRepo := postgres.NewWebhookEventRepository(sqlDB)

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	publisher, closePublisher := newPublisher(cfg, logger)
	defer closePublisher()

	synthesizer, closeSynthesizer := newSynthesizer(ctx, cfg, logger)
	defer closeSynthesizer()

	archive := newArchive(ctx, cfg, logger)

	authService := service.NewAuth(userRepo, refreshTokenRepo, logger, tokenManager)
	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, logger)
	videoService := service.NewVideo(
		videoRepo,
		userRepo,
		synthesizer,
		publisher,
		service.Personas{Female: cfg.Tavus.FemaleReplicaID, Male: cfg.Tavus.MaleReplicaID},
		cfg.FrontendURL,
		logger,
	)
	subscriptionService := service.NewSubscription(
		userRepo,
		webhookEventRepo,
		revenuecat.NewProvider(cfg.Billing.WebhookSecret, cfg.Billing.SkipSignature),
		archive,
		publisher,
		logger,
	)

	r := router.New(
		authService,
		videoService,
		subscriptionService,
		tokenService,
		db,
		httpctx.NewManager(),
		router.Options{
			FrontendURL:     cfg.FrontendURL,
			MaxBodyBytes:    cfg.HTTP.MaxBodyBytes,
			AuthLimiter:     middleware.NewIPRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst, authLimiterTTL),
			SignatureHeader: revenuecat.SignatureHeader,
		},
		logger,
	)

	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func newPublisher(cfg *config.Config, logger *logger.Logger) (model.EventPublisher, func()) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("kafka brokers not configured, lifecycle events disabled")
		return kafka.Noop{}, func() {}
	}

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		logger.Fatal("failed to create kafka producer", "error", err)
	}

	return producer, func() {
		if err := producer.Close(); err != nil {
			logger.Error("failed to close kafka producer", "error", err)
		}
	}
}

func newSynthesizer(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.VideoSynthesizer, func()) {
	if cfg.Tavus.APIKey == "" {
		logger.Warn("TAVUS_API_KEY is not set, video generation will fail")
	}
	client := tavus.NewClient(cfg.Tavus.BaseURL, cfg.Tavus.APIKey, cfg.Tavus.Timeout)

	if cfg.Redis.Addr == "" {
		return client, func() {}
	}

	redisClient, err := rediscache.NewClient(ctx, rediscache.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal("failed to initialize redis", "error", err)
	}

	cached := provider.NewCachingSynthesizer(client, rediscache.NewStatusCache(redisClient), cfg.Redis.StatusTTL, logger)
	return cached, func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("failed to close redis client", "error", err)
		}
	}
}

func newArchive(ctx context.Context, cfg *config.Config, logger *logger.Logger) model.Storage {
	if cfg.Storage.Endpoint == "" {
		logger.Info("minio endpoint not configured, webhook archive disabled")
		return nil
	}

	client, err := storage.NewClient(ctx, storage.Options{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}
	return client
}
