package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/internal/platform/logging"
)

// PingFunc 探测主存储是否可用
type PingFunc func(ctx context.Context) error

// Handler 提供 /healthz。缓存故障不影响整体可用性，只有存储故障返回 503。
type Handler struct {
	pingStore PingFunc
	checker   *Checker
	logger    logrus.FieldLogger
}

// NewHandler 创建健康检查接口。checker 为 nil 表示未配置缓存。
func NewHandler(pingStore PingFunc, checker *Checker, logger logrus.FieldLogger) *Handler {
	return &Handler{pingStore: pingStore, checker: checker, logger: logger}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", h.Healthz)
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	body := gin.H{"status": "ok", "store": "up", "cache": h.cacheState()}
	code := http.StatusOK
	if err := h.pingStore(ctx); err != nil {
		logging.FromContext(c, h.logger).WithError(err).Warn("健康检查: 存储不可用")
		body["status"] = "unavailable"
		body["store"] = "down"
		code = http.StatusServiceUnavailable
	}
	body["time"] = time.Now().UTC()
	c.JSON(code, body)
}

func (h *Handler) cacheState() string {
	if h.checker == nil {
		return "disabled"
	}
	if h.checker.State() == StateHealthy {
		return "up"
	}
	return "down"
}
