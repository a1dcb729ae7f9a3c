// Package user 提供用户管理的 HTTP Handler
package user

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-manager-backend/internal/common/handler"
	"github.com/dumeirei/hotel-manager-backend/internal/common/response"
	"github.com/dumeirei/hotel-manager-backend/internal/middleware"
	"github.com/dumeirei/hotel-manager-backend/internal/service/audit"
	userService "github.com/dumeirei/hotel-manager-backend/internal/service/user"
)

// Handler 用户处理器
type Handler struct {
	userService *userService.Service
}

// NewHandler 创建用户处理器
func NewHandler(userSvc *userService.Service) *Handler {
	return &Handler{
		userService: userSvc,
	}
}

func actorFrom(c *gin.Context) audit.Actor {
	return audit.Actor{
		UserID:   middleware.GetUserID(c),
		UserName: middleware.GetEmail(c),
	}
}

// Create 创建用户
// @Summary 创建用户
// @Tags 用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body userService.CreateRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/v1/users [post]
func (h *Handler) Create(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	var req userService.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	user, err := h.userService.Create(c.Request.Context(), actorFrom(c), &req)
	handler.MustSucceed(c, err, user)
}

// Get 获取用户详情
// @Summary 获取用户详情
// @Tags 用户
// @Produce json
// @Security Bearer
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/v1/users/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	_, userID, ok := handler.RequireUserAndParseID(c, "用户")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	handler.MustSucceed(c, err, user)
}

// Me 获取当前登录用户
// @Summary 获取当前登录用户
// @Tags 用户
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/v1/users/me [get]
func (h *Handler) Me(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	handler.MustSucceed(c, err, user)
}

// List 获取用户列表
// @Summary 获取用户列表
// @Tags 用户
// @Produce json
// @Security Bearer
// @Param role query string false "角色"
// @Param search query string false "按姓名或邮箱搜索"
// @Success 200 {object} response.Response{data=[]models.User}
// @Router /api/v1/users [get]
func (h *Handler) List(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	req := &userService.ListRequest{
		Role:   c.Query("role"),
		Search: c.Query("search"),
	}

	users, total, err := h.userService.List(c.Request.Context(), req)
	handler.MustSucceedList(c, err, users, total)
}

// Update 更新用户
// @Summary 更新用户
// @Tags 用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "用户ID"
// @Param request body userService.UpdateRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/v1/users/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	_, userID, ok := handler.RequireUserAndParseID(c, "用户")
	if !ok {
		return
	}

	var req userService.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	user, err := h.userService.Update(c.Request.Context(), actorFrom(c), userID, &req)
	handler.MustSucceed(c, err, user)
}

// Delete 删除用户
// @Summary 删除用户
// @Tags 用户
// @Produce json
// @Security Bearer
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response
// @Router /api/v1/users/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	_, userID, ok := handler.RequireUserAndParseID(c, "用户")
	if !ok {
		return
	}

	err := h.userService.Delete(c.Request.Context(), actorFrom(c), userID)
	handler.MustSucceed(c, err, nil)
}
