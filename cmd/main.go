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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oksasatya/blog-engagement/config"
	"github.com/oksasatya/blog-engagement/internal/bootstrap"
	"github.com/oksasatya/blog-engagement/internal/container"
	"github.com/oksasatya/blog-engagement/internal/infrastructure/search"
	"github.com/oksasatya/blog-engagement/internal/router"
	"github.com/oksasatya/blog-engagement/pkg/helpers"
	"github.com/oksasatya/blog-engagement/pkg/metrics"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	store, err := bootstrap.OpenStore(ctx, cfg, logger, true)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	// Redis backs rate limiting only; run without it when unreachable
	rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.WithError(err).Warn("redis unavailable, rate limiting disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer pub.Close()
		container.SetRabbitPub(pub)
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := search.NewClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch: %v", err)
		}
		if err := search.NewUserIndex(es, cfg.ESUsersIndex).EnsureIndex(ctx); err != nil {
			logger.WithError(err).Warn("could not ensure user index")
		}
		container.SetES(es)
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL))
	container.SetMetrics(metrics.New(prometheus.DefaultRegisterer))
	container.SetPGPool(store.Pool)
	container.SetRepositories(store.Users, store.Posts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewEngine(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
