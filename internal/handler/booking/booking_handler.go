// Package booking 提供预订管理的 HTTP Handler
package booking

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-manager-backend/internal/common/handler"
	"github.com/dumeirei/hotel-manager-backend/internal/common/response"
	"github.com/dumeirei/hotel-manager-backend/internal/middleware"
	"github.com/dumeirei/hotel-manager-backend/internal/service/audit"
	bookingService "github.com/dumeirei/hotel-manager-backend/internal/service/booking"
)

// Handler 预订处理器
type Handler struct {
	bookingService *bookingService.Service
}

// NewHandler 创建预订处理器
func NewHandler(bookingSvc *bookingService.Service) *Handler {
	return &Handler{
		bookingService: bookingSvc,
	}
}

func actorFrom(c *gin.Context) audit.Actor {
	return audit.Actor{
		UserID:   middleware.GetUserID(c),
		UserName: middleware.GetEmail(c),
	}
}

// CreateRequest 创建预订请求
type CreateRequest struct {
	GuestName     string  `json:"guest_name" binding:"required"`
	GuestContact  string  `json:"guest_contact" binding:"required"`
	RoomID        string  `json:"room_id" binding:"required"`
	CheckInDate   string  `json:"check_in_date" binding:"required"`
	CheckOutDate  string  `json:"check_out_date" binding:"required"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	PaidAmount    float64 `json:"paid_amount"`
	Notes         *string `json:"notes"`
}

// UpdateRequest 更新预订请求
type UpdateRequest struct {
	GuestName     *string  `json:"guest_name"`
	GuestContact  *string  `json:"guest_contact"`
	RoomID        *string  `json:"room_id"`
	CheckInDate   *string  `json:"check_in_date"`
	CheckOutDate  *string  `json:"check_out_date"`
	PaymentStatus *string  `json:"payment_status"`
	PaidAmount    *float64 `json:"paid_amount"`
	Notes         *string  `json:"notes"`
}

// Create 创建预订
// @Summary 创建预订
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings [post]
func (h *Handler) Create(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	checkIn, err := handler.ParseDateTime(req.CheckInDate)
	if err != nil {
		response.BadRequest(c, "入住日期格式错误")
		return
	}
	checkOut, err := handler.ParseDateTime(req.CheckOutDate)
	if err != nil {
		response.BadRequest(c, "退房日期格式错误")
		return
	}

	serviceReq := &bookingService.CreateRequest{
		GuestName:     req.GuestName,
		GuestContact:  req.GuestContact,
		RoomID:        req.RoomID,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		PaidAmount:    req.PaidAmount,
		Notes:         req.Notes,
	}

	booking, err := h.bookingService.Create(c.Request.Context(), actorFrom(c), serviceReq)
	handler.MustSucceed(c, err, booking)
}

// Get 获取预订详情
// @Summary 获取预订详情
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path string true "预订ID"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	_, bookingID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetByID(c.Request.Context(), bookingID)
	handler.MustSucceed(c, err, booking)
}

// List 获取预订列表
// @Summary 获取预订列表
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param room_id query string false "房间ID"
// @Param status query string false "预订状态"
// @Param guest query string false "按客人姓名搜索"
// @Param from query string false "区间开始"
// @Param to query string false "区间结束"
// @Success 200 {object} response.Response{data=[]models.Booking}
// @Router /api/v1/bookings [get]
func (h *Handler) List(c *gin.Context) {
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

	req := &bookingService.ListRequest{
		RoomID: c.Query("room_id"),
		Status: c.Query("status"),
		Guest:  c.Query("guest"),
		From:   from,
		To:     to,
	}

	bookings, total, err := h.bookingService.List(c.Request.Context(), req)
	handler.MustSucceedList(c, err, bookings, total)
}

// Update 更新预订
// @Summary 更新预订
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "预订ID"
// @Param request body UpdateRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	_, bookingID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	serviceReq := &bookingService.UpdateRequest{
		GuestName:     req.GuestName,
		GuestContact:  req.GuestContact,
		RoomID:        req.RoomID,
		PaymentStatus: req.PaymentStatus,
		PaidAmount:    req.PaidAmount,
		Notes:         req.Notes,
	}
	if req.CheckInDate != nil {
		t, err := handler.ParseDateTime(*req.CheckInDate)
		if err != nil {
			response.BadRequest(c, "入住日期格式错误")
			return
		}
		serviceReq.CheckInDate = &t
	}
	if req.CheckOutDate != nil {
		t, err := handler.ParseDateTime(*req.CheckOutDate)
		if err != nil {
			response.BadRequest(c, "退房日期格式错误")
			return
		}
		serviceReq.CheckOutDate = &t
	}

	booking, err := h.bookingService.Update(c.Request.Context(), actorFrom(c), bookingID, serviceReq)
	handler.MustSucceed(c, err, booking)
}

// Delete 删除预订
// @Summary 删除预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path string true "预订ID"
// @Success 200 {object} response.Response
// @Router /api/v1/bookings/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	_, bookingID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	err := h.bookingService.Delete(c.Request.Context(), actorFrom(c), bookingID)
	handler.MustSucceed(c, err, nil)
}

// CheckIn 办理入住
// @Summary 办理入住
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path string true "预订ID"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings/{id}/check-in [post]
func (h *Handler) CheckIn(c *gin.Context) {
	_, bookingID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	booking, err := h.bookingService.CheckIn(c.Request.Context(), actorFrom(c), bookingID)
	handler.MustSucceed(c, err, booking)
}

// CheckOut 办理退房
// @Summary 办理退房
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path string true "预订ID"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings/{id}/check-out [post]
func (h *Handler) CheckOut(c *gin.Context) {
	_, bookingID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	booking, err := h.bookingService.CheckOut(c.Request.Context(), actorFrom(c), bookingID)
	handler.MustSucceed(c, err, booking)
}

// Cancel 取消预订
// @Summary 取消预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path string true "预订ID"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	_, bookingID, ok := handler.RequireUserAndParseID(c, "预订")
	if !ok {
		return
	}

	booking, err := h.bookingService.Cancel(c.Request.Context(), actorFrom(c), bookingID)
	handler.MustSucceed(c, err, booking)
}

// Upcoming 获取近期入住的预订
// @Summary 获取近期入住的预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param days query int false "天数，默认 7"
// @Success 200 {object} response.Response{data=[]models.Booking}
// @Router /api/v1/bookings/upcoming [get]
func (h *Handler) Upcoming(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	bookings, err := h.bookingService.Upcoming(c.Request.Context(), days)
	handler.MustSucceed(c, err, bookings)
}

// TodayCheckIns 获取今日待入住的预订
// @Summary 获取今日待入住的预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]models.Booking}
// @Router /api/v1/bookings/today/check-ins [get]
func (h *Handler) TodayCheckIns(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	bookings, err := h.bookingService.TodayCheckIns(c.Request.Context())
	handler.MustSucceed(c, err, bookings)
}

// TodayCheckOuts 获取今日待退房的预订
// @Summary 获取今日待退房的预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]models.Booking}
// @Router /api/v1/bookings/today/check-outs [get]
func (h *Handler) TodayCheckOuts(c *gin.Context) {
	if _, ok := handler.RequireUserID(c); !ok {
		return
	}

	bookings, err := h.bookingService.TodayCheckOuts(c.Request.Context())
	handler.MustSucceed(c, err, bookings)
}
