package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/cart/application"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// CartHandler 购物车 HTTP 处理器
type CartHandler struct {
	app *application.CartService
}

func NewCartHandler(app *application.CartService) *CartHandler {
	return &CartHandler{app: app}
}

func (h *CartHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/cart")
	{
		api.POST("/add", h.AddItem)
		api.GET("/:userId", h.GetItems)
		api.PUT("/remove", h.RemoveItem)
		api.PUT("/update", h.UpdateQuantity)
		api.DELETE("/:userId/:itemId", h.DeleteItem)
		api.DELETE("/:userId", h.Clear)
	}
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req application.AddItemCommand
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := h.app.AddItem(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "Failed to add to cart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to cart successfully!", "cart": cart})
}

func (h *CartHandler) GetItems(c *gin.Context) {
	items, err := h.app.GetItems(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.writeError(c, "Failed to fetch cart", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type removeRequest struct {
	UserID string `json:"userId"`
	ItemID string `json:"itemId"`
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req removeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.app.RemoveItem(c.Request.Context(), req.UserID, req.ItemID); err != nil {
		h.writeError(c, "Failed to remove item", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed successfully"})
}

func (h *CartHandler) DeleteItem(c *gin.Context) {
	if err := h.app.RemoveItem(c.Request.Context(), c.Param("userId"), c.Param("itemId")); err != nil {
		h.writeError(c, "Failed to remove item", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed successfully"})
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req application.UpdateQuantityCommand
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.app.UpdateQuantity(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "Failed to update quantity", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quantity updated successfully", "item": item})
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.app.Clear(c.Request.Context(), c.Param("userId")); err != nil {
		h.writeError(c, "Failed to clear cart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
}

func (h *CartHandler) writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
	case errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
	default:
		logger.Error(c.Request.Context(), msg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
