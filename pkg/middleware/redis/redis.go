package redis

import (
	"context"

	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/chemdb/pkg/middleware/logger"
)

var redisClient *r.Client

// InitRedis connects when a host is configured. Without one the client stays nil
// and callers fall back to the database.
func InitRedis(ctx context.Context, conf *Redis) {
	if conf == nil || conf.Host == "" {
		logger.Infof(ctx, "redis host not configured, cache disabled")
		return
	}
	var err error
	redisClient, err = initRedis(ctx, conf)
	if err != nil {
		logger.Fatalf(ctx, "init redis fail err: %+v", err)
	}
}

func CloseRedis(ctx context.Context) {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Errorf(ctx, "close redis err: %+v", err)
		}
	}
}

// GetClient 获取Redis客户端实例
func GetClient() *r.Client {
	return redisClient
}
