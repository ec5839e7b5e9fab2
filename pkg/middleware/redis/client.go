package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/extra/rediscmd/v9"
	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/chemdb/pkg/middleware/logger"
)

type Redis struct {
	Host     string
	Port     int
	Password string
	DB       int
}

const slowCmdThreshold = 50 * time.Millisecond

func initRedis(ctx context.Context, conf *Redis) (*r.Client, error) {
	client := r.NewClient(&r.Options{
		Addr:         net.JoinHostPort(conf.Host, strconv.Itoa(conf.Port)),
		Password:     conf.Password,
		DB:           conf.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	client.AddHook(cmdLogHook{})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s:%d: %w", conf.Host, conf.Port, err)
	}
	return client, nil
}

// cmdLogHook logs failed and slow commands.
type cmdLogHook struct{}

func (cmdLogHook) DialHook(next r.DialHook) r.DialHook {
	return next
}

func (cmdLogHook) ProcessHook(next r.ProcessHook) r.ProcessHook {
	return func(ctx context.Context, cmd r.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		cost := time.Since(start)
		if err != nil && err != r.Nil {
			logger.Warnf(ctx, "redis cmd %s err: %+v", rediscmd.CmdString(cmd), err)
		} else if cost > slowCmdThreshold {
			logger.Warnf(ctx, "redis slow cmd %s cost: %s", rediscmd.CmdString(cmd), cost)
		}
		return err
	}
}

func (cmdLogHook) ProcessPipelineHook(next r.ProcessPipelineHook) r.ProcessPipelineHook {
	return func(ctx context.Context, cmds []r.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && err != r.Nil {
			summary, _ := rediscmd.CmdsString(cmds)
			logger.Warnf(ctx, "redis pipeline %s err: %+v", summary, err)
		}
		return err
	}
}
