// Package scheduler 提供定时任务
package scheduler

import (
	"context"

	auditService "github.com/dumeirei/hotel-manager-backend/internal/service/audit"
	authService "github.com/dumeirei/hotel-manager-backend/internal/service/auth"
)

// auditLogRetentionDays 审计日志保留天数
const auditLogRetentionDays = 90

// TaskHandler 任务处理器
type TaskHandler struct {
	authService  *authService.Service
	auditService *auditService.Service
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(authSvc *authService.Service, auditSvc *auditService.Service) *TaskHandler {
	return &TaskHandler{
		authService:  authSvc,
		auditService: auditSvc,
	}
}

// CleanupExpiredSessions 清理已过期的登录会话
func (h *TaskHandler) CleanupExpiredSessions(ctx context.Context) error {
	_, err := h.authService.CleanupExpiredSessions(ctx)
	return err
}

// ClearOldAuditLogs 清理超出保留期的审计日志
func (h *TaskHandler) ClearOldAuditLogs(ctx context.Context) error {
	_, err := h.auditService.ClearOld(ctx, auditLogRetentionDays)
	return err
}
