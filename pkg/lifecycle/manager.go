package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Manager 是后台服务的生命周期协调器。
// 它由 shutdown 模块持有，并向各个后台服务分发句柄(Handle)。
type Manager struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	services map[string]bool
	logger   logrus.FieldLogger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewManager(logger logrus.FieldLogger) *Manager {
	m := &Manager{
		services: make(map[string]bool),
		logger:   logger,
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

// NewServiceHandle 为一个服务注册并创建句柄，同名服务只能注册一次
func (m *Manager) NewServiceHandle(name string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.services[name] {
		return nil, fmt.Errorf("生命周期管理器: 服务 '%s' 已被注册", name)
	}
	m.services[name] = true
	m.wg.Add(1)
	m.logger.WithField("service", name).Info("生命周期管理器: 服务已注册")

	return &Handle{
		ctx: m.ctx,
		Close: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, exists := m.services[name]; !exists {
				return
			}
			delete(m.services, name)
			m.wg.Done()
		},
	}, nil
}

// Shutdown 广播停机信号
func (m *Manager) Shutdown() {
	m.logger.Info("生命周期管理器: 广播停机信号")
	m.cancel()
}

// WaitWithTimeout 等待所有已注册的服务退出，超时后返回仍未退出的服务名
func (m *Manager) WaitWithTimeout(timeout time.Duration) []string {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		m.mu.Lock()
		defer m.mu.Unlock()
		remaining := make([]string, 0, len(m.services))
		for name := range m.services {
			remaining = append(remaining, name)
		}
		return remaining
	}
}
