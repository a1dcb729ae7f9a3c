// Package audit 提供审计日志服务
package audit

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-manager-backend/internal/common/errors"
	"github.com/dumeirei/hotel-manager-backend/internal/common/logger"
	"github.com/dumeirei/hotel-manager-backend/internal/models"
	"github.com/dumeirei/hotel-manager-backend/internal/repository"
)

// Service 审计日志服务
type Service struct {
	repo *repository.AuditLogRepository
}

// NewService 创建审计日志服务
func NewService(repo *repository.AuditLogRepository) *Service {
	return &Service{repo: repo}
}

// Actor 操作者信息
type Actor struct {
	UserID   string
	UserName string
}

// SystemActor 系统操作者（种子数据等无登录用户的场景）
var SystemActor = Actor{UserID: "system", UserName: "System"}

// Record 写入一条审计日志
// details 会序列化为 JSON 并过滤敏感字段；写入失败只记录日志，不阻断业务操作
func (s *Service) Record(ctx context.Context, actor Actor, action, entityType, entityID string, details interface{}) {
	log := &models.AuditLog{
		UserID:    actor.UserID,
		UserName:  actor.UserName,
		Action:    action,
		Timestamp: time.Now(),
	}
	if entityType != "" {
		log.EntityType = &entityType
	}
	if entityID != "" {
		log.EntityID = &entityID
	}
	if details != nil {
		if data, err := json.Marshal(filterSensitiveData(toJSONValue(details))); err == nil {
			detailsStr := string(data)
			log.Details = &detailsStr
		}
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("审计日志写入失败",
			logger.Err(err),
			logger.UserID(actor.UserID),
			logger.Action(action),
		)
	}
}

// RecordTx 在事务内写入审计日志，随事务一起提交或回滚
func (s *Service) RecordTx(ctx context.Context, tx *gorm.DB, actor Actor, action, entityType, entityID string, details interface{}) error {
	log := &models.AuditLog{
		UserID:    actor.UserID,
		UserName:  actor.UserName,
		Action:    action,
		Timestamp: time.Now(),
	}
	if entityType != "" {
		log.EntityType = &entityType
	}
	if entityID != "" {
		log.EntityID = &entityID
	}
	if details != nil {
		if data, err := json.Marshal(filterSensitiveData(toJSONValue(details))); err == nil {
			detailsStr := string(data)
			log.Details = &detailsStr
		}
	}
	return s.repo.WithTx(tx).Create(ctx, log)
}

// ListRequest 日志查询请求
type ListRequest struct {
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// List 查询审计日志
func (s *Service) List(ctx context.Context, req *ListRequest) ([]*models.AuditLog, int64, error) {
	page := req.Page
	pageSize := req.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	filters := map[string]interface{}{}
	if req.UserID != "" {
		filters["user_id"] = req.UserID
	}
	if req.Action != "" {
		filters["action"] = req.Action
	}
	if req.EntityType != "" {
		filters["entity_type"] = req.EntityType
	}
	if req.EntityID != "" {
		filters["entity_id"] = req.EntityID
	}
	if req.From != nil {
		filters["from"] = *req.From
	}
	if req.To != nil {
		filters["to"] = *req.To
	}

	logs, total, err := s.repo.List(ctx, offset, pageSize, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return logs, total, nil
}

// Recent 获取最近 N 条审计日志
func (s *Service) Recent(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	logs, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return logs, nil
}

// ClearOld 清理指定天数之前的审计日志，返回删除条数
func (s *Service) ClearOld(ctx context.Context, daysToKeep int) (int64, error) {
	if daysToKeep <= 0 {
		return 0, errors.ErrInvalidParams.WithMessage("保留天数必须大于零")
	}
	before := time.Now().AddDate(0, 0, -daysToKeep)
	deleted, err := s.repo.DeleteBefore(ctx, before)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}
	if deleted > 0 {
		logger.Info("审计日志已清理", logger.Int64("deleted", deleted), logger.Int("days_to_keep", daysToKeep))
	}
	return deleted, nil
}

// toJSONValue 将任意值转为 JSON 可遍历的结构
func toJSONValue(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// filterSensitiveData 过滤敏感字段
func filterSensitiveData(data interface{}) interface{} {
	sensitiveFields := []string{
		"password", "old_password", "new_password", "confirm_password",
		"password_hash",
		"token", "access_token",
		"secret",
	}

	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{})
		for key, value := range v {
			lowerKey := strings.ToLower(key)
			isSensitive := false
			for _, sf := range sensitiveFields {
				if strings.Contains(lowerKey, sf) {
					isSensitive = true
					break
				}
			}
			if isSensitive {
				result[key] = "***"
			} else {
				result[key] = filterSensitiveData(value)
			}
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = filterSensitiveData(item)
		}
		return result
	default:
		return data
	}
}
