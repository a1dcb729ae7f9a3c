// Package user 提供用户管理服务
package user

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-manager-backend/internal/common/config"
	"github.com/dumeirei/hotel-manager-backend/internal/common/crypto"
	"github.com/dumeirei/hotel-manager-backend/internal/common/errors"
	"github.com/dumeirei/hotel-manager-backend/internal/common/logger"
	"github.com/dumeirei/hotel-manager-backend/internal/common/utils"
	"github.com/dumeirei/hotel-manager-backend/internal/models"
	"github.com/dumeirei/hotel-manager-backend/internal/repository"
	"github.com/dumeirei/hotel-manager-backend/internal/service/audit"
)

// Service 用户服务
type Service struct {
	cfg         *config.Config
	userRepo    *repository.UserRepository
	sessionRepo *repository.SessionRepository
	auditSvc    *audit.Service
}

// NewService 创建用户服务
func NewService(
	cfg *config.Config,
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	auditSvc *audit.Service,
) *Service {
	return &Service{
		cfg:         cfg,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		auditSvc:    auditSvc,
	}
}

// CreateRequest 创建用户请求
type CreateRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role"`
}

// UpdateRequest 更新用户请求
type UpdateRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`
}

// ListRequest 用户列表请求
type ListRequest struct {
	Role   string
	Search string
}

// Create 创建用户
func (s *Service) Create(ctx context.Context, actor audit.Actor, req *CreateRequest) (*models.User, error) {
	if !utils.ValidateEmail(req.Email) {
		return nil, errors.ErrInvalidParams.WithMessage("邮箱格式不正确")
	}
	if !crypto.ValidatePasswordStrength(req.Password) {
		return nil, errors.ErrPasswordTooWeak
	}

	role := req.Role
	if role == "" {
		role = models.UserRoleStaff
	}
	if !models.IsValidUserRole(role) {
		return nil, errors.ErrInvalidParams.WithMessage("无效的用户角色")
	}

	// 邮箱唯一性检查
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, errors.ErrEmailExists
	} else if err != gorm.ErrRecordNotFound {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	hash, err := crypto.HashPassword(req.Password, s.cfg.Crypto.BcryptCost)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("用户已创建", logger.UserID(user.ID), logger.String("email", crypto.MaskEmail(user.Email)))
	s.auditSvc.Record(ctx, actor, models.AuditActionUserCreated, models.AuditEntityUser, user.ID, map[string]string{
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
	})

	return user, nil
}

// GetByID 获取用户详情
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return user, nil
}

// List 获取用户列表
func (s *Service) List(ctx context.Context, req *ListRequest) ([]*models.User, int64, error) {
	filters := map[string]interface{}{}
	if req.Role != "" {
		filters["role"] = req.Role
	}
	if req.Search != "" {
		filters["search"] = req.Search
	}

	users, total, err := s.userRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return users, total, nil
}

// Update 更新用户
// 改邮箱会重新检查唯一性，改密码要求满足密码强度
func (s *Service) Update(ctx context.Context, actor audit.Actor, id string, req *UpdateRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if !utils.ValidateEmail(*req.Email) {
			return nil, errors.ErrInvalidParams.WithMessage("邮箱格式不正确")
		}
		if existing, err := s.userRepo.GetByEmail(ctx, *req.Email); err == nil && existing.ID != id {
			return nil, errors.ErrEmailExists
		} else if err != nil && err != gorm.ErrRecordNotFound {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		if !crypto.ValidatePasswordStrength(*req.Password) {
			return nil, errors.ErrPasswordTooWeak
		}
		hash, err := crypto.HashPassword(*req.Password, s.cfg.Crypto.BcryptCost)
		if err != nil {
			return nil, errors.ErrInternalError.WithError(err)
		}
		user.PasswordHash = hash
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		if !models.IsValidUserRole(*req.Role) {
			return nil, errors.ErrInvalidParams.WithMessage("无效的用户角色")
		}
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	s.auditSvc.Record(ctx, actor, models.AuditActionUserUpdated, models.AuditEntityUser, user.ID, req)

	return user, nil
}

// Delete 删除用户
// 不允许删除当前登录用户；删除同时清掉该用户的全部会话
func (s *Service) Delete(ctx context.Context, actor audit.Actor, id string) error {
	if actor.UserID == id {
		return errors.ErrCannotDeleteSelf
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if err := s.sessionRepo.DeleteByUser(ctx, id); err != nil {
		logger.Error("删除用户会话失败", logger.Err(err), logger.UserID(id))
	}

	logger.Info("用户已删除", logger.UserID(id), logger.String("email", crypto.MaskEmail(user.Email)))
	s.auditSvc.Record(ctx, actor, models.AuditActionUserDeleted, models.AuditEntityUser, id, map[string]string{
		"email": user.Email,
		"name":  user.Name,
	})

	return nil
}
