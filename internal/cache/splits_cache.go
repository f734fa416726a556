package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"LineSync/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultSplitsTTL 未配置时的缓存时长，小于一个同步周期
const DefaultSplitsTTL = 4 * time.Minute

// SplitsCache 投注分布响应缓存。实现必须容忍后端故障：读失败视为未命中，写失败只记日志
type SplitsCache interface {
	Get(ctx context.Context, sport string, gameID int64) (*model.SplitsGame, bool)
	Set(ctx context.Context, sport string, gameID int64, splits *model.SplitsGame)
}

// RedisSplitsCache 基于 Redis 的实现
type RedisSplitsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewRedisSplitsCache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisSplitsCache {
	if ttl <= 0 {
		ttl = DefaultSplitsTTL
	}
	return &RedisSplitsCache{client: client, ttl: ttl, logger: logger}
}

func splitsKey(sport string, gameID int64) string {
	return fmt.Sprintf("splits:%s:%d", sport, gameID)
}

func (c *RedisSplitsCache) Get(ctx context.Context, sport string, gameID int64) (*model.SplitsGame, bool) {
	data, err := c.client.Get(ctx, splitsKey(sport, gameID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).WithField("key", splitsKey(sport, gameID)).Warn("读取投注分布缓存失败")
		}
		return nil, false
	}
	var splits model.SplitsGame
	if err := json.Unmarshal(data, &splits); err != nil {
		c.logger.WithError(err).WithField("key", splitsKey(sport, gameID)).Warn("投注分布缓存内容损坏")
		return nil, false
	}
	return &splits, true
}

func (c *RedisSplitsCache) Set(ctx context.Context, sport string, gameID int64, splits *model.SplitsGame) {
	if splits == nil {
		return
	}
	data, err := json.Marshal(splits)
	if err != nil {
		c.logger.WithError(err).Warn("序列化投注分布失败")
		return
	}
	if err := c.client.Set(ctx, splitsKey(sport, gameID), data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", splitsKey(sport, gameID)).Warn("写入投注分布缓存失败")
	}
}

// NopSplitsCache 未配置 Redis 时使用
type NopSplitsCache struct{}

func (NopSplitsCache) Get(context.Context, string, int64) (*model.SplitsGame, bool) { return nil, false }

func (NopSplitsCache) Set(context.Context, string, int64, *model.SplitsGame) {}

// NewRedisClient 按配置创建客户端并探活
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}
	return client, nil
}
