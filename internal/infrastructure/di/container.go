package di

import (
	"context"
	"fmt"
	"time"

	"github.com/stwebyy/rally-track-sub001/internal/infrastructure/cache"
	"github.com/stwebyy/rally-track-sub001/internal/infrastructure/database"
	"github.com/stwebyy/rally-track-sub001/internal/infrastructure/repository"
	"github.com/stwebyy/rally-track-sub001/internal/infrastructure/videohost"
	"github.com/stwebyy/rally-track-sub001/pkg/config"
)

// 認証セッションのフォールバックTTL
const authSessionTTL = 7 * 24 * time.Hour

// Container はアプリケーションの依存を束ねます
type Container struct {
	Config *config.Config

	Postgres  *database.PostgresClient
	Redis     *cache.RedisClient
	TxManager *database.TxManager

	UploadSessionRepo *repository.UploadSessionRepository
	AuthSessionStore  *cache.AuthSessionStore
	ProgressStore     *cache.ProgressStore
	RateLimiter       *cache.RateLimiter
	VideoProvider     *videohost.Client
}

// NewContainer はインフラ層の依存を初期化してContainerを作成します
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	postgres, err := database.NewPostgresClient(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	redisCfg := cache.DefaultConfig()
	redisCfg.URL = cfg.Redis.URL
	redis, err := cache.NewRedisClient(redisCfg)
	if err != nil {
		postgres.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	txManager := database.NewTxManager(postgres.Pool())

	return &Container{
		Config:            cfg,
		Postgres:          postgres,
		Redis:             redis,
		TxManager:         txManager,
		UploadSessionRepo: repository.NewUploadSessionRepository(txManager),
		AuthSessionStore:  cache.NewAuthSessionStore(redis, authSessionTTL),
		ProgressStore:     cache.NewProgressStore(redis, cfg.Upload.ProgressTTL),
		RateLimiter:       cache.NewRateLimiter(redis),
		VideoProvider:     videohost.NewClient(cfg.Provider.BaseURL, cfg.Provider.APIToken, cfg.Provider.CallTimeout),
	}, nil
}

// Close は保持しているリソースを解放します
func (c *Container) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Postgres != nil {
		c.Postgres.Close()
	}
}
