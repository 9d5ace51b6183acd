package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/internal/platform/config"
)

const pingTimeout = 5 * time.Second

// InitRedis 初始化与Redis的连接。未配置地址时返回 nil，调用方需将缓存视为禁用。
// 连接失败时仍返回客户端和错误，由健康检查在 Redis 恢复后重新启用缓存。
func InitRedis(ctx context.Context, cfg config.RedisConfig, logger logrus.FieldLogger) (*redis.Client, error) {
	if cfg.Address == "" {
		logger.Info("未配置Redis，分类缓存已禁用")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return rdb, fmt.Errorf("无法连接到Redis: %w", err)
	}

	logger.WithField("address", cfg.Address).Info("Redis 连接成功")
	return rdb, nil
}
