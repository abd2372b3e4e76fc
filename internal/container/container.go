package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-engagement/config"
	"github.com/oksasatya/blog-engagement/internal/application"
	"github.com/oksasatya/blog-engagement/internal/domain/repository"
	"github.com/oksasatya/blog-engagement/pkg/helpers"
	"github.com/oksasatya/blog-engagement/pkg/metrics"
)

// app-level container to share constructed components across packages.
// The router builds its modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	jwtManager  *helpers.JWTManager
	rabbitPub   *helpers.RabbitPublisher
	esClient    *elasticsearch.Client
	appMetrics  *metrics.Metrics

	userRepo repository.UserRepository
	postRepo repository.PostRepository
	notifier application.Notifier
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }

// GetJWT falls back to a manager built from the config.
func GetJWT() *helpers.JWTManager {
	if jwtManager == nil && cfg != nil {
		jwtManager = helpers.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	}
	return jwtManager
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
func SetMetrics(m *metrics.Metrics)           { appMetrics = m }
func GetMetrics() *metrics.Metrics            { return appMetrics }

// SetRepositories selects the storage backend (postgres or memory).
func SetRepositories(users repository.UserRepository, posts repository.PostRepository) {
	userRepo, postRepo = users, posts
}
func GetUserRepo() repository.UserRepository { return userRepo }
func GetPostRepo() repository.PostRepository { return postRepo }

func SetNotifier(n application.Notifier) { notifier = n }
func GetNotifier() application.Notifier  { return notifier }
