package project

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/internal/platform/database"
)

// setIfGen 仅当代数未变化时写入缓存
var setIfGen = redis.NewScript(`
if (redis.call('GET', KEYS[2]) or '0') ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// CategoryCache 用 Redis 缓存分类列表。客户端为 nil 或 Redis 不健康时读写都是空操作。
type CategoryCache struct {
	rdb    *redis.Client
	status *database.Status
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewCategoryCache(rdb *redis.Client, status *database.Status, ttl time.Duration, logger logrus.FieldLogger) *CategoryCache {
	return &CategoryCache{rdb: rdb, status: status, ttl: ttl, logger: logger}
}

func (c *CategoryCache) enabled() bool {
	return c != nil && c.rdb != nil && c.status.IsRedisHealthy()
}

// Get 返回缓存的分类；未命中时 ok 为 false，gen 是读取时的代数，回填时原样传给 Set
func (c *CategoryCache) Get(ctx context.Context) (categories []string, gen string, ok bool) {
	if !c.enabled() {
		return nil, "", false
	}
	values, err := c.rdb.MGet(ctx, CategoriesKey, CategoriesGenKey).Result()
	if err != nil {
		c.logger.WithError(err).Warn("读取分类缓存失败")
		return nil, "", false
	}

	gen = "0"
	if s, isStr := values[1].(string); isStr {
		gen = s
	}
	raw, isStr := values[0].(string)
	if !isStr {
		return nil, gen, false
	}
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		c.logger.WithError(err).Warn("分类缓存内容无法解析")
		return nil, gen, false
	}
	return categories, gen, true
}

// Set 回填缓存。gen 为空表示读取缓存时 Redis 不可用，此时不回填。
func (c *CategoryCache) Set(ctx context.Context, gen string, categories []string) {
	if !c.enabled() || gen == "" {
		return
	}
	raw, err := json.Marshal(categories)
	if err != nil {
		return
	}
	ttl := strconv.FormatInt(c.ttl.Milliseconds(), 10)
	if err := setIfGen.Run(ctx, c.rdb, []string{CategoriesKey, CategoriesGenKey}, gen, raw, ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("写入分类缓存失败")
	}
}

// Invalidate 在项目写入后删除缓存。Redis 不健康时跳过，
// 恢复时健康检查会通过 Purge 统一清理。
func (c *CategoryCache) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.Purge(ctx)
}

// Purge 无视健康状态删除缓存并递增代数，供健康检查在重建阶段调用
func (c *CategoryCache) Purge(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, CategoriesKey)
		pipe.Incr(ctx, CategoriesGenKey)
		return nil
	})
	if err != nil {
		c.logger.WithError(err).Warn("清理分类缓存失败")
		return err
	}
	return nil
}
