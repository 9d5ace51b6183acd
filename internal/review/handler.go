package review

import (
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
	r.GET("/reviews", h.List)
	r.POST("/reviews", h.Create)
	r.DELETE("/reviews/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
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
		httpx.BadRequest(c, "invalid review body")
		return
	}
	res, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := httpx.ID(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
