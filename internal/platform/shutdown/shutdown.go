package shutdown

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/pkg/lifecycle"
)

const (
	httpTimeout       = 15 * time.Second
	backgroundTimeout = 10 * time.Second
	closeTimeout      = 5 * time.Second
)

// Closer 在停机最后阶段释放一个外部资源
type Closer struct {
	Name  string
	Close func(ctx context.Context) error
}

// Coordinator 负责编排应用程序的优雅停机流程。
// 它接收外部创建的生命周期管理器，并使用它来协调后台服务的退出。
type Coordinator struct {
	manager *lifecycle.Manager
	closers []Closer
	logger  logrus.FieldLogger
}

// NewCoordinator 创建一个新的停机协调器。closers 按注册的逆序执行。
func NewCoordinator(manager *lifecycle.Manager, logger logrus.FieldLogger, closers ...Closer) *Coordinator {
	return &Coordinator{manager: manager, closers: closers, logger: logger}
}

// ListenForSignalsAndShutdown 阻塞直到收到 SIGINT/SIGTERM，然后执行停机流程。
func (c *Coordinator) ListenForSignalsAndShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	sig := <-sigChan
	c.logger.WithField("signal", sig.String()).Info("收到关闭信号，开始优雅停机...")
	c.Shutdown(server)
}

// Shutdown 依次关闭HTTP服务器、后台服务和外部连接
func (c *Coordinator) Shutdown(server *http.Server) {
	if server != nil {
		// 允许正在进行的请求完成
		ctx, cancel := context.WithTimeout(context.Background(), httpTimeout)
		if err := server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.WithError(err).Error("HTTP服务器关闭错误")
		} else {
			c.logger.Info("HTTP服务器已关闭")
		}
		cancel()
	}

	c.manager.Shutdown()
	if remaining := c.manager.WaitWithTimeout(backgroundTimeout); len(remaining) > 0 {
		c.logger.WithField("services", remaining).Warn("部分后台服务未能在超时前退出")
	}

	for i := len(c.closers) - 1; i >= 0; i-- {
		closer := c.closers[i]
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		if err := closer.Close(ctx); err != nil {
			c.logger.WithError(err).WithField("resource", closer.Name).Error("资源关闭失败")
		} else {
			c.logger.WithField("resource", closer.Name).Info("资源已关闭")
		}
		cancel()
	}

	c.logger.Info("优雅停机完成")
}
