package handler

import (
	"net/http"

	"go-event-booking/internal/service"
	"go-event-booking/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	analytics service.AnalyticsService
}

func NewAdminHandler(analytics service.AnalyticsService) *AdminHandler {
	return &AdminHandler{analytics: analytics}
}

func (h *AdminHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/admin")
	{
		router.GET("analytics/overview", h.GetAnalyticsOverview)
	}
}

func (h *AdminHandler) GetAnalyticsOverview(c *gin.Context) {
	overview, err := h.analytics.Overview(c)
	if err != nil {
		logger.WithComponent("handler").Error("analytics overview failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, overview)
}
