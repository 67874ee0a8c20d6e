package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/engmhisham/utg-api/api/common"
	"github.com/engmhisham/utg-api/internal/dashboard"
)

// Handler Dashboard 处理器
type Handler struct {
	svc *dashboard.Service
}

// NewHandler 创建新的 Dashboard 处理器
func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{
		svc: svc,
	}
}

// GetStats 获取 Dashboard 统计数据
// @Summary      Dashboard statistics
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  common.Response{data=dashboard.StatsResponse}
// @Security     BearerAuth
// @Router       /dashboard/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.svc.GetStats(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondSuccess(c, stats)
}

// RefreshStats 刷新 Dashboard 统计缓存
// @Summary      Refresh dashboard statistics
// @Tags         dashboard
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /dashboard/stats/refresh [post]
func (h *Handler) RefreshStats(c *gin.Context) {
	if err := h.svc.RefreshCache(c.Request.Context()); err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondSuccessMessage(c, "Stats refreshed successfully", nil)
}
