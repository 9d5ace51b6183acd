package project

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/internal/platform/httpx"
)

// Handler 暴露项目相关的 HTTP 接口
type Handler struct {
	svc    *Service
	logger logrus.FieldLogger
}

func NewHandler(svc *Service, logger logrus.FieldLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes 注册项目、评论与分类路由
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/projects", h.List)
	r.POST("/add-project", h.Create)
	r.GET("/project/:id", h.Get)
	r.PUT("/project/:id", h.Replace)
	r.DELETE("/project/:id", h.Delete)
	r.PATCH("/project/comment/:id", h.AddComment)
	r.PATCH("/project/:id/comments/:commentId", h.RemoveComment)
	r.DELETE("/project/:id/comments/:commentId", h.RemoveComment)
	r.GET("/categories", h.Categories)
}

// List 分页返回项目，category 为空或 all 时不过滤
func (h *Handler) List(c *gin.Context) {
	category, ok := httpx.SingleQuery(c, "category")
	if !ok {
		return
	}

	page, err := h.svc.List(c.Request.Context(), category, httpx.PageQuery(c))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := httpx.ID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) Create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.BadRequest(c, "invalid project body")
		return
	}

	res, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Replace(c *gin.Context) {
	id, ok := httpx.ID(c, "id")
	if !ok {
		return
	}
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.BadRequest(c, "invalid project body")
		return
	}

	res, err := h.svc.Replace(c.Request.Context(), id, in)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
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

func (h *Handler) AddComment(c *gin.Context) {
	id, ok := httpx.ID(c, "id")
	if !ok {
		return
	}
	var in CommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httpx.BadRequest(c, "invalid comment body")
		return
	}

	comment, res, err := h.svc.AddComment(c.Request.Context(), id, in)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"acknowledged":  res.Acknowledged,
		"matchedCount":  res.MatchedCount,
		"modifiedCount": res.ModifiedCount,
		"comment":       comment,
	})
}

// RemoveComment 评论不在该项目下时返回 404，评论列表不变
func (h *Handler) RemoveComment(c *gin.Context) {
	id, ok := httpx.ID(c, "id")
	if !ok {
		return
	}
	commentID, ok := httpx.ID(c, "commentId")
	if !ok {
		return
	}

	res, err := h.svc.RemoveComment(c.Request.Context(), id, commentID)
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
			return
		}
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
