package database

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Status 负责线程安全地记录缓存(Redis)的健康状态。
// 缓存不可用时请求直接回源到文档存储。
type Status struct {
	mu             sync.RWMutex
	isRedisHealthy bool
	logger         logrus.FieldLogger
}

// NewStatus 创建一个状态管理器，默认启动时是健康的
func NewStatus(logger logrus.FieldLogger) *Status {
	return &Status{isRedisHealthy: true, logger: logger}
}

// IsRedisHealthy 返回当前Redis的健康状态。nil 接收者视为不健康。
func (s *Status) IsRedisHealthy() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRedisHealthy
}

// UpdateStatus 更新健康状态，返回是否从不可用恢复为可用。
func (s *Status) UpdateStatus(isHealthy bool) (recovered bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 只有当状态发生变化时才打印日志
	if s.isRedisHealthy == isHealthy {
		return false
	}
	s.isRedisHealthy = isHealthy
	if isHealthy {
		s.logger.Info("健康检查: Redis服务状态已更新为 [可用]")
		return true
	}
	s.logger.Warn("健康检查警告: Redis服务状态已更新为 [不可用]")
	return false
}
