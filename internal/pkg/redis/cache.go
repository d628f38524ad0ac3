package redis

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Cache 业务缓存与分布式锁
type Cache interface {
	// GetJSON 命中时反序列化到 dst 并返回 true
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error
	DeleteKey(ctx context.Context, keys ...string) error
	// DeleteByPrefix 删除前缀匹配的全部键
	DeleteByPrefix(ctx context.Context, prefix string) error
	TryLock(ctx context.Context, key, value string, expiration time.Duration, retryTimes int) (bool, error)
	UnLock(ctx context.Context, key, value string)
	Close() error
}

type Client struct {
	rdb *redis.Client
}

func NewClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// GetJSON 获取并反序列化
func (c *Client) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err = json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 序列化后设置键值并设置过期时间
func (c *Client) SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, expiration).Err()
}

// DeleteKey 删除键
func (c *Client) DeleteKey(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// DeleteByPrefix 使用 SCAN 遍历删除，避免 KEYS 阻塞
func (c *Client) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.DeleteKey(ctx, keys...)
}

// TryLock 尝试获取锁，retryTimes 为 -1 时一直重试
func (c *Client) TryLock(ctx context.Context, key, value string, expiration time.Duration, retryTimes int) (bool, error) {
	for i := 0; i < retryTimes || retryTimes == -1; i++ {
		success, err := c.rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		time.Sleep(time.Millisecond * 200)
	}
	return false, nil
}

// UnLock 释放锁，仅删除自己持有的锁
func (c *Client) UnLock(ctx context.Context, key, value string) {
	c.rdb.Eval(ctx, "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end", []string{key}, value)
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// NopCache 未启用 Redis 时使用，永远未命中，锁总是获取成功
type NopCache struct{}

func (NopCache) GetJSON(context.Context, string, any) (bool, error)            { return false, nil }
func (NopCache) SetJSON(context.Context, string, any, time.Duration) error     { return nil }
func (NopCache) DeleteKey(context.Context, ...string) error                    { return nil }
func (NopCache) DeleteByPrefix(context.Context, string) error                  { return nil }
func (NopCache) UnLock(context.Context, string, string)                        {}
func (NopCache) Close() error                                                  { return nil }
func (NopCache) TryLock(context.Context, string, string, time.Duration, int) (bool, error) {
	return true, nil
}
