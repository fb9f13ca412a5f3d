package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/catalog/application"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// CatalogHandler 商品目录 HTTP 处理器
type CatalogHandler struct {
	app *application.CatalogService
}

func NewCatalogHandler(app *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/products")
	{
		api.GET("", h.List)
		api.GET("/search", h.Search)
		api.GET("/seller/:sellerId", h.ListBySeller)
		api.GET("/category/:category", h.ListByCategory)
		api.POST("", h.Create)
		api.PUT("/:id", h.Update)
		api.DELETE("/:id", h.Delete)
		api.POST("/analyze-pricing", h.AnalyzePricing)
	}
}

func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.app.ListProducts(c.Request.Context())
	h.writeList(c, products, err)
}

func (h *CatalogHandler) Search(c *gin.Context) {
	products, err := h.app.Search(c.Request.Context(), c.Query("q"))
	h.writeList(c, products, err)
}

func (h *CatalogHandler) ListBySeller(c *gin.Context) {
	products, err := h.app.ListBySeller(c.Request.Context(), c.Param("sellerId"))
	h.writeList(c, products, err)
}

func (h *CatalogHandler) ListByCategory(c *gin.Context) {
	products, err := h.app.ListByCategory(c.Request.Context(), c.Param("category"))
	h.writeList(c, products, err)
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req application.CreateProductCommand
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := h.app.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "Failed to add product", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) Update(c *gin.Context) {
	var req application.UpdateProductCommand
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("id")
	product, err := h.app.UpdateProduct(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "Failed to update product", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type deleteRequest struct {
	SellerID string `json:"sellerId"`
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	var req deleteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.SellerID == "" {
		req.SellerID = c.Query("sellerId")
	}
	if err := h.app.DeleteProduct(c.Request.Context(), c.Param("id"), req.SellerID); err != nil {
		h.writeError(c, "Failed to delete product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *CatalogHandler) AnalyzePricing(c *gin.Context) {
	var req domain.PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if req.ProductName == "" || req.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "productName and category are required"})
		return
	}
	report, err := h.app.AnalyzePricing(c.Request.Context(), req)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to analyze pricing", "product_name", req.ProductName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to analyze pricing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"competitors": report.Competitors,
		"analysis":    report.Analysis,
		"aiInsights":  report.AIInsights,
	})
}

func (h *CatalogHandler) writeList(c *gin.Context, products []*domain.Product, err error) {
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list products", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized: You can only modify your own products"})
	case errors.Is(err, domain.ErrInvalidProduct), errors.Is(err, domain.ErrUnknownCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(c.Request.Context(), msg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
