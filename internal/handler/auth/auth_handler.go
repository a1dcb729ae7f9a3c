// Package auth 提供登录认证的 HTTP Handler
package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-manager-backend/internal/common/handler"
	"github.com/dumeirei/hotel-manager-backend/internal/common/response"
	"github.com/dumeirei/hotel-manager-backend/internal/middleware"
	"github.com/dumeirei/hotel-manager-backend/internal/service/audit"
	authService "github.com/dumeirei/hotel-manager-backend/internal/service/auth"
)

// Handler 认证处理器
type Handler struct {
	authService *authService.Service
}

// NewHandler 创建认证处理器
func NewHandler(authSvc *authService.Service) *Handler {
	return &Handler{
		authService: authSvc,
	}
}

// SignIn 登录
// @Summary 邮箱密码登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body authService.SignInRequest true "请求参数"
// @Success 200 {object} response.Response{data=authService.SignInResult}
// @Router /api/v1/auth/sign-in [post]
func (h *Handler) SignIn(c *gin.Context) {
	var req authService.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.authService.SignIn(c.Request.Context(), &req)
	handler.MustSucceed(c, err, result)
}

// SignOut 退出登录
// @Summary 退出登录
// @Tags 认证
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response
// @Router /api/v1/auth/sign-out [post]
func (h *Handler) SignOut(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	actor := audit.Actor{UserID: userID, UserName: middleware.GetEmail(c)}
	err := h.authService.SignOut(c.Request.Context(), actor)
	handler.MustSucceed(c, err, nil)
}

// ValidateSession 校验会话令牌
// @Summary 校验会话令牌
// @Tags 认证
// @Produce json
// @Param token query string true "会话令牌"
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/v1/auth/session [get]
func (h *Handler) ValidateSession(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "会话令牌不能为空")
		return
	}

	user, err := h.authService.ValidateSession(c.Request.Context(), token)
	handler.MustSucceed(c, err, user)
}
