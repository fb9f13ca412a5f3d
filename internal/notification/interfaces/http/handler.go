package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/notification/application"
	"github.com/wyfcoding/storefront/internal/notification/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// NotificationHandler HTTP 处理器
// 负责处理与通知相关的 HTTP 请求
type NotificationHandler struct {
	app    *application.NotificationService
	stream http.Handler      // websocket 推送，可为 nil
	writes []gin.HandlerFunc // 写接口前置中间件（限流）
}

// NewNotificationHandler 创建 HTTP 处理器实例
func NewNotificationHandler(app *application.NotificationService, stream http.Handler, writeMiddleware ...gin.HandlerFunc) *NotificationHandler {
	return &NotificationHandler{app: app, stream: stream, writes: writeMiddleware}
}

// RegisterRoutes 注册路由
func (h *NotificationHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/notifications")
	{
		api.GET("", h.ListLatest)
		api.GET("/seller/:sellerId", h.ListBySeller)
		api.GET("/high-demand", h.ListHighDemand)
		api.PUT("/:id/read", h.MarkRead)
		api.DELETE("/clear", h.ClearAll)
		api.POST("", append(append([]gin.HandlerFunc{}, h.writes...), h.Create)...)
		if h.stream != nil {
			api.GET("/stream", gin.WrapH(h.stream))
		}
	}
}

// ListLatest 最新 50 条
func (h *NotificationHandler) ListLatest(c *gin.Context) {
	list, err := h.app.ListLatest(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list notifications", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

// ListBySeller 某个卖家的最新 20 条
func (h *NotificationHandler) ListBySeller(c *gin.Context) {
	sellerID := c.Param("sellerId")
	list, err := h.app.ListBySeller(c.Request.Context(), sellerID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list seller notifications", "seller_id", sellerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

// ListHighDemand 最新 20 条需求提醒
func (h *NotificationHandler) ListHighDemand(c *gin.Context) {
	list, err := h.app.ListHighDemand(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list high demand notifications", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

// MarkRead 标记已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	n, err := h.app.MarkRead(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to mark notification read", "notification_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, n)
}

// ClearAll 清空通知
func (h *NotificationHandler) ClearAll(c *gin.Context) {
	if _, err := h.app.ClearAll(c.Request.Context()); err != nil {
		logger.Error(c.Request.Context(), "Failed to clear notifications", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications cleared"})
}

// Create 直接写入一条通知
func (h *NotificationHandler) Create(c *gin.Context) {
	var req application.CreateNotificationCommand
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.app.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidNotification) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error(c.Request.Context(), "Failed to create notification", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, n)
}

func nonNil(list []*domain.Notification) []*domain.Notification {
	if list == nil {
		return []*domain.Notification{}
	}
	return list
}
