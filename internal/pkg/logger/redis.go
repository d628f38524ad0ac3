package logger

import (
	"context"
	"errors"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLoggerHook 记录缓存命令的错误与慢查询
type RedisLoggerHook struct {
	slow time.Duration
}

func NewRedisLogger(slow time.Duration) *RedisLoggerHook {
	return &RedisLoggerHook{slow: slow}
}

func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "redis dial failed",
				log.String("addr", addr),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err),
			)
		}
		return conn, err
	}
}

func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		name := cmd.Name()
		switch {
		case err == nil && elapsed > s.slow:
			log.WarnContext(ctx, "redis slow command", log.String("command", name), log.Duration("latency", elapsed))
		case err != nil && !ignorableRedisError(name, err):
			// 参数里可能带缓存内容，只记录命令名
			log.ErrorContext(ctx, "redis command failed", log.String("command", name), log.Duration("latency", elapsed), log.Any("err", err))
		}
		return err
	}
}

func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			log.ErrorContext(ctx, "redis pipeline failed",
				log.Int("cmd_count", len(cmds)),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err),
			)
		}
		return err
	}
}

func ignorableRedisError(name string, err error) bool {
	if errors.Is(err, redis.Nil) {
		return true
	}
	// 旧版本服务端不支持 CLIENT SETINFO
	return name == "client" && strings.Contains(err.Error(), "setinfo")
}
