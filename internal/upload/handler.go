// Package upload 签发前端直传图片所需的短期签名，不发起任何外部调用。
package upload

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SlpAus/portfolio-backend/internal/platform/config"
	"github.com/SlpAus/portfolio-backend/pkg/token"
)

type Handler struct {
	signer   *token.Signer
	imageKit config.ImageKitConfig
	logger   logrus.FieldLogger
}

func NewHandler(signer *token.Signer, imageKit config.ImageKitConfig, logger logrus.FieldLogger) *Handler {
	return &Handler{signer: signer, imageKit: imageKit, logger: logger}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/signature", h.Signature)
	r.GET("/api/imagekit-auth", h.ImageKitAuth)
}

// Signature 返回 token、expire 与签名
func (h *Handler) Signature(c *gin.Context) {
	c.JSON(http.StatusOK, h.signer.Upload())
}

// ImageKitAuth 返回 ImageKit 客户端上传所需的认证参数
func (h *Handler) ImageKitAuth(c *gin.Context) {
	if h.imageKit.PrivateKey == "" {
		h.logger.Warn("未配置ImageKit私钥，无法签发认证参数")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "imagekit is not configured"})
		return
	}

	p := h.signer.ImageKit(h.imageKit.PrivateKey)
	c.JSON(http.StatusOK, gin.H{
		"token":       p.Token,
		"expire":      p.Expire,
		"signature":   p.Signature,
		"publicKey":   h.imageKit.PublicKey,
		"urlEndpoint": h.imageKit.URLEndpoint,
	})
}
