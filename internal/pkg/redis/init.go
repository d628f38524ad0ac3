package redis

import (
	"Devflow/internal/api/config"
	"Devflow/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

// InitRedis 初始化 Redis 客户端；未配置地址时返回空缓存
func InitRedis(cfg config.RedisConfig) (Cache, error) {
	if cfg.Addr == "" {
		log.Info("Redis address not configured, cache disabled")
		return NopCache{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,

		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
	rdb.AddHook(logger.NewRedisLogger(time.Duration(cfg.SlowThreshold) * time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	log.Info("Redis initialized successfully", "addr", cfg.Addr)
	return NewClient(rdb), nil
}
