package health

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/internal/platform/database"
	"github.com/SlpAus/portfolio-backend/pkg/lifecycle"
)

const pingTimeout = 2 * time.Second

var runIDPattern = regexp.MustCompile(`run_id:([a-f0-9]+)`)

// RebuildFunc 清理或重建依赖 Redis 的缓存
type RebuildFunc func(ctx context.Context) error

// Checker 周期性探测 Redis，并把结果同步到 database.Status。
// 不健康期间缓存读写被跳过，请求直接访问存储。
type Checker struct {
	rdb      *redis.Client
	status   *database.Status
	states   *statusManager
	interval time.Duration
	rebuild  RebuildFunc
	logger   logrus.FieldLogger
}

func NewChecker(rdb *redis.Client, status *database.Status, interval time.Duration, rebuild RebuildFunc, logger logrus.FieldLogger) *Checker {
	return &Checker{
		rdb:      rdb,
		status:   status,
		states:   newStatusManager(logger),
		interval: interval,
		rebuild:  rebuild,
		logger:   logger,
	}
}

// getRedisRunID 从 INFO server 中提取 run_id
func (c *Checker) getRedisRunID(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	info, err := c.rdb.Info(ctx, "server").Result()
	if err != nil {
		return "", err
	}
	matches := runIDPattern.FindStringSubmatch(info)
	if len(matches) < 2 {
		return "", fmt.Errorf("无法在Redis INFO中找到run_id")
	}
	return matches[1], nil
}

// State 返回当前缓存状态
func (c *Checker) State() State {
	return c.states.State()
}

// PerformCheck 执行一次完整的健康检查和可能的缓存重建
func (c *Checker) PerformCheck(ctx context.Context) {
	runID, err := c.getRedisRunID(ctx)
	if !c.states.Assess(err == nil, runID) {
		c.status.UpdateStatus(c.states.State() == StateHealthy)
		return
	}

	// 重建完成前不使用缓存
	c.status.UpdateStatus(false)
	success := true
	if c.rebuild != nil {
		if err := c.rebuild(ctx); err != nil {
			c.logger.WithError(err).Warn("健康检查: 缓存重建失败")
			success = false
		}
	}

	runIDAfter, err := c.getRedisRunID(ctx)
	if err != nil {
		success = false
	}
	c.states.MarkRebuildComplete(success, runIDAfter)
	c.status.UpdateStatus(c.states.State() == StateHealthy)
}

// Run 阻塞执行周期检查，直到生命周期句柄被取消
func (c *Checker) Run(handle *lifecycle.Handle) {
	defer handle.Close()
	c.logger.WithField("interval", c.interval.String()).Info("Redis健康检查器已启动")

	for {
		if err := handle.Sleep(c.interval); err != nil {
			c.logger.Info("Redis健康检查器已停止")
			return
		}
		c.PerformCheck(handle.Ctx())
	}
}
