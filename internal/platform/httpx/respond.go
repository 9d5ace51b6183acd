// Package httpx 收敛各资源 handler 共用的参数校验与错误响应。
package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
	"github.com/SlpAus/portfolio-backend/internal/platform/logging"
)

// Error 把仓库层的哨兵错误映射为状态码。5xx 只返回通用信息，细节写入日志。
func Error(c *gin.Context, logger logrus.FieldLogger, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, database.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logging.FromContext(c, logger).WithError(err).Error("请求处理失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// BadRequest 返回 400
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// ID 读取路径参数并校验 ObjectID 格式，失败时已写出 400
func ID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if !database.IsValidID(id) {
		BadRequest(c, "invalid id: "+id)
		return "", false
	}
	return id, true
}

// SingleQuery 读取只允许出现一次的查询参数；重复出现时已写出 400
func SingleQuery(c *gin.Context, key string) (string, bool) {
	values := c.QueryArray(key)
	switch len(values) {
	case 0:
		return "", true
	case 1:
		return values[0], true
	default:
		BadRequest(c, key+" must be a single value")
		return "", false
	}
}

// PageQuery 从 ?page=&limit= 解析分页参数
func PageQuery(c *gin.Context) pager.Query {
	return pager.ParseQuery(c.Query("page"), c.Query("limit"))
}
