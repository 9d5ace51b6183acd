package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/internal/platform/httpx"
)

type Handler struct {
	svc    *Service
	logger logrus.FieldLogger
}

func NewHandler(svc *Service, logger logrus.FieldLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/users", h.Get)
	r.POST("/users", h.Register)
}

// Get 带 email 时返回单个用户，否则按 name/role 分页
func (h *Handler) Get(c *gin.Context) {
	email, ok := httpx.SingleQuery(c, "email")
	if !ok {
		return
	}
	if email != "" {
		u, err := h.svc.FindByEmail(c.Request.Context(), email)
		if err != nil {
			httpx.Error(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, u)
		return
	}

	name, ok := httpx.SingleQuery(c, "name")
	if !ok {
		return
	}
	role, ok := httpx.SingleQuery(c, "role")
	if !ok {
		return
	}

	page, err := h.svc.List(c.Request.Context(), Filter{Name: name, Role: role}, httpx.PageQuery(c))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) Register(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user data"})
		return
	}

	u, created, err := h.svc.Register(c.Request.Context(), in)
	if errors.Is(err, ErrEmailRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user data"})
		return
	}
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{
			"message": "User created successfully",
			"userId":  u.ID,
			"user":    u,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user already exists", "user": u})
}
