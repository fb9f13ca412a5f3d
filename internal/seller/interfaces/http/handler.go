package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/seller/application"
	"github.com/wyfcoding/storefront/internal/seller/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// SellerHandler 卖家 HTTP 处理器
type SellerHandler struct {
	app *application.SellerService
}

func NewSellerHandler(app *application.SellerService) *SellerHandler {
	return &SellerHandler{app: app}
}

func (h *SellerHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/sellers")
	{
		api.POST("", h.Register)
		api.GET("/:id", h.GetSeller)
	}
}

func (h *SellerHandler) Register(c *gin.Context) {
	var req application.RegisterSellerCommand
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.app.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSeller) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error(c.Request.Context(), "Failed to register seller", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Seller registered", "sellerId": id})
}

func (h *SellerHandler) GetSeller(c *gin.Context) {
	seller, err := h.app.GetSeller(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Seller not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to get seller", "seller_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, seller)
}
