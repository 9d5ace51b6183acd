package skill

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
	r.GET("/skills", h.Get)
	r.POST("/skills", h.Create)
	r.GET("/skills-stats", h.Stats)
}

// Get 带 packageName 时返回单个技能，否则分页
func (h *Handler) Get(c *gin.Context) {
	packageName, ok := httpx.SingleQuery(c, "packageName")
	if !ok {
		return
	}
	if packageName != "" {
		sk, err := h.svc.Get(c.Request.Context(), packageName)
		if err != nil {
			httpx.Error(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, sk)
		return
	}

	page, err := h.svc.List(c.Request.Context(), httpx.PageQuery(c))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) Create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.BadRequest(c, "invalid skill body")
		return
	}

	res, err := h.svc.Create(c.Request.Context(), in)
	if errors.Is(err, ErrPackageRequired) {
		httpx.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Stats(c *gin.Context) {
	skills, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, skills)
}
