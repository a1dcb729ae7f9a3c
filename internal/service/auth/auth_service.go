// Package auth 提供登录认证服务
package auth

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-manager-backend/internal/common/config"
	"github.com/dumeirei/hotel-manager-backend/internal/common/crypto"
	"github.com/dumeirei/hotel-manager-backend/internal/common/errors"
	"github.com/dumeirei/hotel-manager-backend/internal/common/jwt"
	"github.com/dumeirei/hotel-manager-backend/internal/common/logger"
	"github.com/dumeirei/hotel-manager-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-manager-backend/internal/models"
	"github.com/dumeirei/hotel-manager-backend/internal/repository"
	"github.com/dumeirei/hotel-manager-backend/internal/service/audit"
)

// Service 认证服务
type Service struct {
	cfg         *config.Config
	jwtManager  *jwt.Manager
	userRepo    *repository.UserRepository
	sessionRepo *repository.SessionRepository
	auditSvc    *audit.Service
}

// NewService 创建认证服务
func NewService(
	cfg *config.Config,
	jwtManager *jwt.Manager,
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	auditSvc *audit.Service,
) *Service {
	return &Service{
		cfg:         cfg,
		jwtManager:  jwtManager,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		auditSvc:    auditSvc,
	}
}

// SignInRequest 登录请求
type SignInRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// SignInResult 登录结果
type SignInResult struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	ExpireAt     int64        `json:"expire_at"`
	SessionToken string       `json:"session_token"`
}

// SignIn 邮箱密码登录
// 邮箱不存在和密码错误返回同一个错误，不泄露账号是否存在；
// 登录成功后清掉该用户的旧会话，只保留当前会话
func (s *Service) SignIn(ctx context.Context, req *SignInRequest) (*SignInResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		logger.Warn("登录失败：密码错误", logger.String("email", crypto.MaskEmail(req.Email)))
		return nil, errors.ErrInvalidCredentials
	}

	ttl := s.cfg.Session.DefaultDuration()
	if req.RememberMe {
		ttl = s.cfg.Session.RememberDuration()
	}

	sessionToken, err := crypto.GenerateToken(32)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	if err := s.sessionRepo.DeleteByUser(ctx, user.ID); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	session := &models.Session{
		UserID:     user.ID,
		Token:      sessionToken,
		RememberMe: req.RememberMe,
		ExpiresAt:  time.Now().Add(ttl),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	accessToken, expireAt, err := s.jwtManager.GenerateTokenWithExpiry(user.ID, user.Email, user.Role, ttl)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	logger.Info("用户登录成功",
		logger.UserID(user.ID),
		logger.String("email", crypto.MaskEmail(user.Email)),
		logger.Bool("remember_me", req.RememberMe),
	)
	metrics.GetMetrics().IncActiveSessions()
	s.auditSvc.Record(ctx, audit.Actor{UserID: user.ID, UserName: user.Name},
		models.AuditActionUserSignedIn, models.AuditEntityUser, user.ID, map[string]interface{}{
			"email":       user.Email,
			"remember_me": req.RememberMe,
		})

	return &SignInResult{
		User:         user,
		AccessToken:  accessToken,
		ExpireAt:     expireAt,
		SessionToken: sessionToken,
	}, nil
}

// SignOut 退出登录，删除当前用户的全部会话
func (s *Service) SignOut(ctx context.Context, actor audit.Actor) error {
	if err := s.sessionRepo.DeleteByUser(ctx, actor.UserID); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("用户已退出", logger.UserID(actor.UserID))
	metrics.GetMetrics().DecActiveSessions()
	s.auditSvc.Record(ctx, actor, models.AuditActionUserSignedOut, models.AuditEntityUser, actor.UserID, nil)

	return nil
}

// ValidateSession 校验会话令牌并返回会话所属用户
// 过期会话当场删除并返回 ErrSessionExpired
func (s *Service) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUnauthorized
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if session.IsExpired() {
		if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil {
			logger.Error("删除过期会话失败", logger.Err(err))
		}
		return nil, errors.ErrSessionExpired
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUnauthorized
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return user, nil
}

// CleanupExpiredSessions 清理过期会话，返回清理条数
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	deleted, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}
	if deleted > 0 {
		logger.Info("过期会话已清理", logger.Int64("deleted", deleted))
	}
	return deleted, nil
}
