package lifecycle

import (
	"context"
	"time"
)

// Handle 是分发给每个后台服务的生命周期句柄
type Handle struct {
	ctx context.Context
	// Close 通知 Manager 服务已经退出，应在服务 goroutine 中 defer 调用
	Close func()
}

func (h *Handle) Ctx() context.Context {
	return h.ctx
}

// Done 在停机信号发出后关闭
func (h *Handle) Done() <-chan struct{} {
	return h.ctx.Done()
}

func (h *Handle) Err() error {
	return h.ctx.Err()
}

// Sleep 暂停指定时长，停机信号到达时提前返回错误。
// 后台循环都应使用它代替 time.Sleep。
func (h *Handle) Sleep(d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-h.Done():
		return h.Err()
	case <-timer.C:
		return nil
	}
}
