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

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mindease-app/edge/internal/config"
	"github.com/mindease-app/edge/internal/db"
	"github.com/mindease-app/edge/internal/events"
	"github.com/mindease-app/edge/internal/httpserver"
	"github.com/mindease-app/edge/internal/logging"
	"github.com/mindease-app/edge/internal/search"
	"github.com/mindease-app/edge/internal/session"
	"github.com/mindease-app/edge/internal/tokenstore"
	"github.com/mindease-app/edge/pkg/apiclient"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	sealer, err := tokenstore.NewSealer(cfg.TokenSealKey)
	if err != nil {
		log.Fatalf("token seal key: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, gormDB, err := openStore(ctx, cfg, sealer)
	cancel()
	if err != nil {
		log.Fatalf("token store: %v", err)
	}

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		esClient, err = search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
	}

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)

	client := apiclient.New(cfg.APIBaseURL)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())

	httpserver.Register(e, httpserver.Deps{
		Sessions:     session.NewManager(client, store),
		Client:       client,
		DeviceSecret: cfg.DeviceSecret,
		Events:       producer,
		Search:       esClient,
		SearchIndex:  cfg.ESIndex,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("edge_listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if gormDB != nil {
		if sqlDB, err := gormDB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Error("db_close_error", "error", err)
			}
		}
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}

// openStore picks the token store backing: redis when configured, otherwise
// postgres or a local sqlite file via gorm.
func openStore(ctx context.Context, cfg *config.Config, sealer *tokenstore.Sealer) (tokenstore.Store, *gorm.DB, error) {
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, nil, err
		}
		ttl := time.Duration(cfg.TokenTTLDays) * 24 * time.Hour
		return tokenstore.NewRedisStore(rdb, sealer, ttl), nil, nil
	}

	gormDB, err := db.Open(ctx, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	return tokenstore.NewGormStore(gormDB, sealer), gormDB, nil
}
