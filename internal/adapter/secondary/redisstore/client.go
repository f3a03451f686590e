package redisstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/config"
)

// NewClient creates a Redis client for the configured mode and verifies the
// connection with a ping.
func NewClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (redis.UniversalClient, error) {
	var client redis.UniversalClient

	switch cfg.RedisMode {
	case "", "standalone":
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case "sentinel":
		if cfg.RedisMasterName == "" || len(cfg.RedisSentinelAddrs) == 0 {
			return nil, fmt.Errorf("redis sentinel mode requires REDIS_MASTER_NAME and REDIS_SENTINEL_ADDRS")
		}
		client = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    cfg.RedisMasterName,
			SentinelAddrs: cfg.RedisSentinelAddrs,
			Password:      cfg.RedisPassword,
			DB:            cfg.RedisDB,
		})
	case "cluster":
		if len(cfg.RedisClusterAddrs) == 0 {
			return nil, fmt.Errorf("redis cluster mode requires REDIS_CLUSTER_ADDRS")
		}
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    cfg.RedisClusterAddrs,
			Password: cfg.RedisPassword,
		})
	default:
		return nil, fmt.Errorf("unknown redis mode %q", cfg.RedisMode)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("connected to redis",
		zap.String("mode", cfg.RedisMode),
		zap.String("addr", cfg.RedisAddr),
	)
	return client, nil
}
