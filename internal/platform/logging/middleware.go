package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDHeader 在请求与响应中携带请求ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey 是请求ID在 gin.Context 中的键
	RequestIDKey = "requestID"
)

// RequestLogger 为每个请求分配请求ID，并在请求结束后输出一条访问日志。
func RequestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		fields := logrus.Fields{
			"action":     "http_request",
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		entry := logger.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("请求处理失败")
		case status >= 400:
			entry.Warn("请求被拒绝")
		default:
			entry.Info("请求完成")
		}
	}
}

// FromContext 返回携带请求ID的日志条目
func FromContext(c *gin.Context, logger logrus.FieldLogger) logrus.FieldLogger {
	if id, ok := c.Get(RequestIDKey); ok {
		return logger.WithField("request_id", id)
	}
	return logger
}
