package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/demand/application"
	"github.com/wyfcoding/storefront/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DemandHandler 需求追踪管理接口
type DemandHandler struct {
	tracker    *application.Tracker
	middleware []gin.HandlerFunc
}

// NewDemandHandler middleware 作用于整个 admin 分组（例如限流）
func NewDemandHandler(tracker *application.Tracker, middleware ...gin.HandlerFunc) *DemandHandler {
	return &DemandHandler{tracker: tracker, middleware: middleware}
}

// RegisterRoutes 注册路由
func (h *DemandHandler) RegisterRoutes(router *gin.Engine) {
	admin := router.Group("/api/orders/admin", h.middleware...)
	{
		admin.GET("/demand-stats", h.Stats)
		admin.GET("/demand-stats/export", h.Export)
		admin.POST("/check-demand", h.CheckDemand)
		admin.GET("/demand-tracker", h.Status)
	}
}

func (h *DemandHandler) Stats(c *gin.Context) {
	report, err := h.tracker.Stats(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "failed to compute demand stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to compute demand stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": report.Stats})
}

func (h *DemandHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	report, err := h.tracker.Stats(ctx)
	if err != nil {
		logger.Error(ctx, "failed to compute demand stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to compute demand stats"})
		return
	}
	buf, err := buildWorkbook(report)
	if err != nil {
		logger.Error(ctx, "failed to build demand workbook", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to export demand stats"})
		return
	}
	filename := fmt.Sprintf("demand-stats-%s.xlsx", report.Stats.WindowStart.Format("20060102-1504"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// CheckDemand 同步执行一次检查并返回摘要
func (h *DemandHandler) CheckDemand(c *gin.Context) {
	result, err := h.tracker.TriggerCheck(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "manual demand check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Demand check failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Demand check triggered", "result": result})
}

func (h *DemandHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Status())
}
