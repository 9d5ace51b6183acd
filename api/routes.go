package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SlpAus/portfolio-backend/internal/platform/health"
	"github.com/SlpAus/portfolio-backend/internal/project"
	"github.com/SlpAus/portfolio-backend/internal/review"
	"github.com/SlpAus/portfolio-backend/internal/skill"
	"github.com/SlpAus/portfolio-backend/internal/upload"
	"github.com/SlpAus/portfolio-backend/internal/user"
)

// Handlers 汇总所有模块的HTTP处理器
type Handlers struct {
	Health   *health.Handler
	Projects *project.Handler
	Users    *user.Handler
	Skills   *skill.Handler
	Reviews  *review.Handler
	Upload   *upload.Handler
}

// SetupRoutes 注册项目的所有API路由。
// 路径保持与旧版前端一致，因此直接挂在根路径下。
func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Portfolio server is ready")
	})

	h.Health.RegisterRoutes(router)
	h.Projects.RegisterRoutes(router)
	h.Users.RegisterRoutes(router)
	h.Skills.RegisterRoutes(router)
	h.Reviews.RegisterRoutes(router)
	h.Upload.RegisterRoutes(router)
}
