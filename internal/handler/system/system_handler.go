// Package system 提供设置、审计日志和数据备份的 HTTP Handler
package system

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-manager-backend/internal/common/handler"
	"github.com/dumeirei/hotel-manager-backend/internal/common/response"
	"github.com/dumeirei/hotel-manager-backend/internal/middleware"
	auditService "github.com/dumeirei/hotel-manager-backend/internal/service/audit"
	systemService "github.com/dumeirei/hotel-manager-backend/internal/service/system"
)

// Handler 系统处理器
type Handler struct {
	systemService *systemService.Service
	auditService  *auditService.Service
}

// NewHandler 创建系统处理器
func NewHandler(systemSvc *systemService.Service, auditSvc *auditService.Service) *Handler {
	return &Handler{
		systemService: systemSvc,
		auditService:  auditSvc,
	}
}

func actorFrom(c *gin.Context) auditService.Actor {
	return auditService.Actor{
		UserID:   middleware.GetUserID(c),
		UserName: middleware.GetEmail(c),
	}
}

// UpdateSettingsRequest 更新设置请求
type UpdateSettingsRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// GetSettings 获取应用设置
// @Summary 获取应用设置
// @Tags 系统
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=models.Settings}
// @Router /api/v1/settings [get]
func (h *Handler) GetSettings(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	settings, err := h.systemService.GetSettings(c.Request.Context())
	handler.MustSucceed(c, err, settings)
}

// UpdateSettings 更新应用设置
// @Summary 更新应用设置
// @Tags 系统
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body UpdateSettingsRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Settings}
// @Router /api/v1/settings [put]
func (h *Handler) UpdateSettings(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	settings, err := h.systemService.UpdateSettings(c.Request.Context(), req.Theme)
	handler.MustSucceed(c, err, settings)
}

// ListAuditLogs 查询审计日志
// @Summary 查询审计日志
// @Tags 系统
// @Produce json
// @Security Bearer
// @Param user_id query string false "用户ID"
// @Param action query string false "操作类型"
// @Param entity_type query string false "对象类型"
// @Param entity_id query string false "对象ID"
// @Param from query string false "区间开始"
// @Param to query string false "区间结束"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=[]models.AuditLog}
// @Router /api/v1/audit-logs [get]
func (h *Handler) ListAuditLogs(c *gin.Context) {
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

	page := handler.BindPagination(c)
	req := &auditService.ListRequest{
		UserID:     c.Query("user_id"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		From:       from,
		To:         to,
		Page:       page.Page,
		PageSize:   page.PageSize,
	}

	logs, total, err := h.auditService.List(c.Request.Context(), req)
	handler.MustSucceedPage(c, err, logs, total, page.Page, page.PageSize)
}

// RecentAuditLogs 查询最近的审计日志
// @Summary 查询最近的审计日志
// @Tags 系统
// @Produce json
// @Security Bearer
// @Param limit query int false "数量，默认 50"
// @Success 200 {object} response.Response{data=[]models.AuditLog}
// @Router /api/v1/audit-logs/recent [get]
func (h *Handler) RecentAuditLogs(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.auditService.Recent(c.Request.Context(), limit)
	handler.MustSucceed(c, err, logs)
}

// ClearOldAuditLogs 清理历史审计日志
// @Summary 清理历史审计日志
// @Tags 系统
// @Produce json
// @Security Bearer
// @Param days_to_keep query int false "保留天数，默认 90"
// @Success 200 {object} response.Response
// @Router /api/v1/audit-logs/clear [post]
func (h *Handler) ClearOldAuditLogs(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	daysToKeep, _ := strconv.Atoi(c.DefaultQuery("days_to_keep", "90"))
	deleted, err := h.auditService.ClearOld(c.Request.Context(), daysToKeep)
	handler.MustSucceed(c, err, gin.H{"deleted": deleted})
}

// Export 导出全部数据
// @Summary 导出全部数据
// @Tags 系统
// @Produce json
// @Security Bearer
// @Success 200 {object} systemService.Backup
// @Router /api/v1/system/export [get]
func (h *Handler) Export(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	backup, err := h.systemService.Export(c.Request.Context(), actorFrom(c))
	if handler.HandleError(c, err) {
		return
	}

	c.Header("Content-Disposition", `attachment; filename="hotel-backup.json"`)
	c.JSON(200, backup)
}

// Import 导入备份数据
// @Summary 导入备份数据
// @Tags 系统
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response
// @Router /api/v1/system/import [post]
func (h *Handler) Import(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "读取请求体失败")
		return
	}

	err = h.systemService.Import(c.Request.Context(), actorFrom(c), data)
	handler.MustSucceed(c, err, nil)
}

// Reset 清空业务数据
// @Summary 清空业务数据
// @Tags 系统
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response
// @Router /api/v1/system/reset [post]
func (h *Handler) Reset(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	err := h.systemService.Reset(c.Request.Context(), actorFrom(c))
	handler.MustSucceed(c, err, nil)
}
