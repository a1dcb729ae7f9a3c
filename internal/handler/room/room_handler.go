// Package room 提供房间管理的 HTTP Handler
package room

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-manager-backend/internal/common/handler"
	"github.com/dumeirei/hotel-manager-backend/internal/common/response"
	"github.com/dumeirei/hotel-manager-backend/internal/middleware"
	"github.com/dumeirei/hotel-manager-backend/internal/service/audit"
	roomService "github.com/dumeirei/hotel-manager-backend/internal/service/room"
)

// Handler 房间处理器
type Handler struct {
	roomService *roomService.Service
}

// NewHandler 创建房间处理器
func NewHandler(roomSvc *roomService.Service) *Handler {
	return &Handler{
		roomService: roomSvc,
	}
}

// actorFrom 从请求上下文构造操作者信息
func actorFrom(c *gin.Context) audit.Actor {
	return audit.Actor{
		UserID:   middleware.GetUserID(c),
		UserName: middleware.GetEmail(c),
	}
}

// Create 创建房间
// @Summary 创建房间
// @Tags 房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body roomService.CreateRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/rooms [post]
func (h *Handler) Create(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	var req roomService.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.Create(c.Request.Context(), actorFrom(c), &req)
	handler.MustSucceed(c, err, room)
}

// Get 获取房间详情
// @Summary 获取房间详情
// @Tags 房间
// @Produce json
// @Security Bearer
// @Param id path string true "房间ID"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/rooms/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	_, roomID, ok := handler.RequireUserAndParseID(c, "房间")
	if !ok {
		return
	}

	room, err := h.roomService.GetByID(c.Request.Context(), roomID)
	handler.MustSucceed(c, err, room)
}

// List 获取房间列表
// @Summary 获取房间列表
// @Tags 房间
// @Produce json
// @Security Bearer
// @Param status query string false "房间状态"
// @Param type query string false "房间类型"
// @Param min_capacity query int false "最小容纳人数"
// @Param max_price query number false "最高每晚价格"
// @Param search query string false "按房间号、类型或备注搜索"
// @Success 200 {object} response.Response{data=[]models.Room}
// @Router /api/v1/rooms [get]
func (h *Handler) List(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	minCapacity, _ := strconv.Atoi(c.Query("min_capacity"))
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)
	req := &roomService.ListRequest{
		Status:      c.Query("status"),
		Type:        c.Query("type"),
		MinCapacity: minCapacity,
		MaxPrice:    maxPrice,
		Search:      c.Query("search"),
	}

	rooms, total, err := h.roomService.List(c.Request.Context(), req)
	handler.MustSucceedList(c, err, rooms, total)
}

// Update 更新房间
// @Summary 更新房间
// @Tags 房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "房间ID"
// @Param request body roomService.UpdateRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/rooms/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	_, roomID, ok := handler.RequireUserAndParseID(c, "房间")
	if !ok {
		return
	}

	var req roomService.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.Update(c.Request.Context(), actorFrom(c), roomID, &req)
	handler.MustSucceed(c, err, room)
}

// Delete 删除房间
// @Summary 删除房间
// @Tags 房间
// @Produce json
// @Security Bearer
// @Param id path string true "房间ID"
// @Success 200 {object} response.Response
// @Router /api/v1/rooms/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	_, roomID, ok := handler.RequireUserAndParseID(c, "房间")
	if !ok {
		return
	}

	err := h.roomService.Delete(c.Request.Context(), actorFrom(c), roomID)
	handler.MustSucceed(c, err, nil)
}

// Available 查询日期区间内可预订的房间
// @Summary 查询可预订房间
// @Tags 房间
// @Produce json
// @Security Bearer
// @Param check_in query string true "入住日期"
// @Param check_out query string true "退房日期"
// @Success 200 {object} response.Response{data=[]models.Room}
// @Router /api/v1/rooms/available [get]
func (h *Handler) Available(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	checkIn, checkOut, ok := handler.ParseRequiredQueryDateRange(c)
	if !ok {
		return
	}

	rooms, err := h.roomService.GetAvailableRooms(c.Request.Context(), checkIn, checkOut)
	handler.MustSucceed(c, err, rooms)
}
