// Package analytics 提供统计分析的 HTTP Handler
package analytics

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-manager-backend/internal/common/handler"
	analyticsService "github.com/dumeirei/hotel-manager-backend/internal/service/analytics"
)

// Handler 统计分析处理器
type Handler struct {
	analyticsService *analyticsService.Service
}

// NewHandler 创建统计分析处理器
func NewHandler(analyticsSvc *analyticsService.Service) *Handler {
	return &Handler{
		analyticsService: analyticsSvc,
	}
}

// Occupancy 查询日期区间的入住率
// @Summary 查询入住率
// @Tags 统计
// @Produce json
// @Security Bearer
// @Param check_in query string true "区间开始"
// @Param check_out query string true "区间结束"
// @Success 200 {object} response.Response{data=float64}
// @Router /api/v1/analytics/occupancy [get]
func (h *Handler) Occupancy(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	start, end, ok := handler.ParseRequiredQueryDateRange(c)
	if !ok {
		return
	}

	rate, err := h.analyticsService.OccupancyRate(c.Request.Context(), start, end)
	handler.MustSucceed(c, err, gin.H{"occupancy_rate": rate})
}

// Revenue 查询营收汇总
// @Summary 查询营收汇总
// @Tags 统计
// @Produce json
// @Security Bearer
// @Param from query string false "区间开始"
// @Param to query string false "区间结束"
// @Success 200 {object} response.Response{data=analyticsService.RevenueSummary}
// @Router /api/v1/analytics/revenue [get]
func (h *Handler) Revenue(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	from, ok := handler.ParseQueryDate(c, "from", "无效的区间开始日期")
	if !ok {
		return
	}
	to, ok := handler.ParseQueryDate(c, "to", "无效的区间结束日期")
	if !ok {
		return
	}

	summary, err := h.analyticsService.Revenue(c.Request.Context(), from, to)
	handler.MustSucceed(c, err, summary)
}

// RoomStatus 查询房间状态汇总
// @Summary 查询房间状态汇总
// @Tags 统计
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=analyticsService.RoomStatusSummary}
// @Router /api/v1/analytics/rooms [get]
func (h *Handler) RoomStatus(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	summary, err := h.analyticsService.RoomStatusCounts(c.Request.Context())
	handler.MustSucceed(c, err, summary)
}

// Dashboard 获取仪表盘汇总
// @Summary 获取仪表盘汇总
// @Tags 统计
// @Produce json
// @Security Bearer
// @Param from query string false "区间开始"
// @Param to query string false "区间结束"
// @Success 200 {object} response.Response{data=analyticsService.DashboardSummary}
// @Router /api/v1/analytics/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	from, ok := handler.ParseQueryDate(c, "from", "无效的区间开始日期")
	if !ok {
		return
	}
	to, ok := handler.ParseQueryDate(c, "to", "无效的区间结束日期")
	if !ok {
		return
	}

	summary, err := h.analyticsService.Dashboard(c.Request.Context(), from, to)
	handler.MustSucceed(c, err, summary)
}
