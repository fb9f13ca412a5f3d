package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/order/application"
	"github.com/wyfcoding/storefront/internal/order/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// OrderHandler 订单 HTTP 处理器
type OrderHandler struct {
	app *application.OrderService
}

func NewOrderHandler(app *application.OrderService) *OrderHandler {
	return &OrderHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *OrderHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/orders")
	{
		api.POST("/place", h.Place)
		api.GET("/:orderId", h.Get)
	}
}

func (h *OrderHandler) Place(c *gin.Context) {
	var req application.PlaceOrderCommand
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.app.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOrder) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error(c.Request.Context(), "failed to place order", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.app.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		logger.Error(c.Request.Context(), "failed to get order", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	c.JSON(http.StatusOK, order)
}
