package health

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// State 是缓存层的健康状态
type State int

const (
	StateHealthy State = iota
	StateDegraded
	// StateRebuilding 表示 Redis 已可连接，但缓存内容需要先清理才能信任
	StateRebuilding
)

func (s State) String() string {
	switch s {
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateRebuilding:
		return "rebuilding"
	default:
		return "unknown"
	}
}

// statusManager 根据每次探测结果推进状态
type statusManager struct {
	mu             sync.RWMutex
	currentState   State
	lastKnownRunID string
	logger         logrus.FieldLogger
}

func newStatusManager(logger logrus.FieldLogger) *statusManager {
	return &statusManager{currentState: StateHealthy, logger: logger}
}

func (sm *statusManager) State() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// Assess 评估一次探测结果并决定是否需要清理缓存。
// 连接恢复或 run_id 变化都意味着缓存可能与存储不一致。
func (sm *statusManager) Assess(connected bool, runID string) (needsRebuild bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	restarted := sm.lastKnownRunID != "" && sm.lastKnownRunID != runID

	switch sm.currentState {
	case StateHealthy:
		if !connected {
			sm.currentState = StateDegraded
			sm.logger.Warn("健康检查: Redis连接丢失，系统状态 -> [降级]")
		} else if restarted {
			sm.currentState = StateRebuilding
			needsRebuild = true
			sm.logger.WithField("run_id", runID).Warn("健康检查: 检测到Redis重启，系统状态 -> [重建中]")
		}
	case StateDegraded:
		if connected {
			// 降级期间的写入没有清理缓存，恢复后总是先重建
			sm.currentState = StateRebuilding
			needsRebuild = true
			sm.logger.Info("健康检查: Redis连接已恢复，系统状态 -> [重建中]")
		}
	case StateRebuilding:
		if !connected {
			sm.currentState = StateDegraded
			sm.logger.Warn("健康检查: 重建期间Redis连接再次丢失，系统状态 -> [降级]")
		} else {
			needsRebuild = true
		}
	}

	if connected {
		sm.lastKnownRunID = runID
	}
	return needsRebuild
}

// MarkRebuildComplete 在一次重建尝试后调用。重建期间 run_id 再次变化时保持 [重建中]。
func (sm *statusManager) MarkRebuildComplete(success bool, runIDAfter string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.currentState != StateRebuilding {
		return
	}
	if success && sm.lastKnownRunID != runIDAfter {
		sm.logger.Warn("健康检查: 重建期间检测到Redis再次重启，保持[重建中]状态")
		sm.lastKnownRunID = runIDAfter
		return
	}
	if success {
		sm.currentState = StateHealthy
		sm.logger.Info("健康检查: 缓存重建成功，系统状态 -> [健康]")
		return
	}
	sm.logger.Warn("健康检查: 缓存重建失败，保持[重建中]状态以待重试")
}
