package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/fathima-sithara/person-service/internal/api"
	"github.com/fathima-sithara/person-service/internal/cache"
	"github.com/fathima-sithara/person-service/internal/config"
	"github.com/fathima-sithara/person-service/internal/database"
	"github.com/fathima-sithara/person-service/internal/domain"
	"github.com/fathima-sithara/person-service/internal/events"
	"github.com/fathima-sithara/person-service/internal/graph"
	"github.com/fathima-sithara/person-service/internal/httpclient"
	"github.com/fathima-sithara/person-service/internal/middleware"
	"github.com/fathima-sithara/person-service/internal/repository"
	"github.com/fathima-sithara/person-service/internal/service"
	"github.com/fathima-sithara/person-service/internal/utils"
)

type publisher interface {
	service.EventPublisher
	Close() error
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	// logger
	logger, err := utils.NewLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// redis (optional)
	var rdb *cache.Client
	if cfg.Redis.Addr != "" {
		rdb, err = cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
	}

	// repository
	var mongoClient *mongo.Client
	var repo repository.PersonRepository
	switch cfg.App.Backend {
	case config.BackendMongo:
		db, client, err := database.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			logger.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		mongoClient = client
		if err := repository.EnsurePersonIndexes(ctx, db, cfg.Mongo.Collection); err != nil {
			logger.Fatal("failed to create indexes", zap.Error(err))
		}
		repo = repository.NewMongoPersonRepo(db, cfg.Mongo.Collection)
		logger.Info("connected to MongoDB", zap.String("database", cfg.Mongo.Database))
	case config.BackendRemote:
		client := httpclient.NewClient(httpclient.ClientConfig{
			Timeout:            time.Duration(cfg.Remote.TimeoutSeconds) * time.Second,
			RetryMaxElapsed:    time.Duration(cfg.Remote.RetryMaxElapsedSeconds) * time.Second,
			MaxIdleConns:       10,
			IdleConnTimeout:    90 * time.Second,
			BreakerMaxFailures: cfg.Remote.BreakerMaxFailures,
		}, logger)
		var listCache repository.ListCache
		if rdb != nil {
			listCache = rdb
		}
		repo = repository.NewRemotePersonRepo(client, cfg.Remote.BaseURL, listCache,
			time.Duration(cfg.Remote.CacheTTLSeconds)*time.Second, logger)
	default:
		repo = repository.NewMemoryPersonRepo(domain.Seed())
	}
	logger.Info("person store ready", zap.String("backend", cfg.App.Backend))

	// events
	var pub publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		pub = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	// service + schema
	svc := service.NewPersonService(repo, pub, logger)
	schema, err := graph.NewSchema(svc, logger)
	if err != nil {
		logger.Fatal("failed to parse graphql schema", zap.Error(err))
	}

	// rate limiter
	var limiter fiber.Handler
	switch {
	case cfg.App.RateLimitPerMin <= 0:
		logger.Info("rate limiting disabled")
	case rdb != nil:
		limiter = middleware.NewRedisRateLimiter(rdb.Cli, cfg.Redis.Prefix, cfg.App.RateLimitPerMin, time.Minute, logger).Handler()
	default:
		rl := middleware.NewIPRateLimiter(cfg.App.RateLimitPerMin, 20, logger)
		defer rl.Close()
		limiter = rl.Handler()
	}

	app := api.NewServer(cfg, schema, limiter, logger)

	// start server
	go func() {
		logger.Info("server ready", zap.String("addr", cfg.App.Addr()), zap.String("graphql", "/graphql"))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := pub.Close(); err != nil {
		logger.Error("event producer close", zap.Error(err))
	}
	if mongoClient != nil {
		_ = mongoClient.Disconnect(shutdownCtx)
	}
	logger.Info("server stopped")
}
