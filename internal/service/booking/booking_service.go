// Package booking 提供预订管理服务
package booking

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-manager-backend/internal/common/errors"
	"github.com/dumeirei/hotel-manager-backend/internal/common/logger"
	"github.com/dumeirei/hotel-manager-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-manager-backend/internal/common/utils"
	"github.com/dumeirei/hotel-manager-backend/internal/models"
	"github.com/dumeirei/hotel-manager-backend/internal/repository"
	"github.com/dumeirei/hotel-manager-backend/internal/service/audit"
)

// Service 预订服务
// 创建、改期和生命周期操作都在单个事务内完成冲突检查和房间状态联动，
// 避免并发写入产生重复占用或部分写入
type Service struct {
	db          *gorm.DB
	bookingRepo *repository.BookingRepository
	roomRepo    *repository.RoomRepository
	auditSvc    *audit.Service
}

// NewService 创建预订服务
func NewService(
	db *gorm.DB,
	bookingRepo *repository.BookingRepository,
	roomRepo *repository.RoomRepository,
	auditSvc *audit.Service,
) *Service {
	return &Service{
		db:          db,
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		auditSvc:    auditSvc,
	}
}

// CreateRequest 创建预订请求
type CreateRequest struct {
	GuestName     string    `json:"guest_name" binding:"required"`
	GuestContact  string    `json:"guest_contact" binding:"required"`
	RoomID        string    `json:"room_id" binding:"required"`
	CheckInDate   time.Time `json:"check_in_date" binding:"required"`
	CheckOutDate  time.Time `json:"check_out_date" binding:"required"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	PaidAmount    float64   `json:"paid_amount"`
	Notes         *string   `json:"notes"`
}

// UpdateRequest 更新预订请求
// 状态变更走专门的生命周期操作，不在此处处理
type UpdateRequest struct {
	GuestName     *string    `json:"guest_name"`
	GuestContact  *string    `json:"guest_contact"`
	RoomID        *string    `json:"room_id"`
	CheckInDate   *time.Time `json:"check_in_date"`
	CheckOutDate  *time.Time `json:"check_out_date"`
	PaymentStatus *string    `json:"payment_status"`
	PaidAmount    *float64   `json:"paid_amount"`
	Notes         *string    `json:"notes"`
}

// ListRequest 预订列表请求
type ListRequest struct {
	RoomID string
	Status string
	Guest  string
	From   *time.Time
	To     *time.Time
}

// Create 创建预订
// 晚数按入住到退房的天数向上取整，总价 = 晚数 × 房间每晚价格；
// 创建为已入住状态时同步把房间置为已入住
func (s *Service) Create(ctx context.Context, actor audit.Actor, req *CreateRequest) (*models.Booking, error) {
	if !req.CheckInDate.Before(req.CheckOutDate) {
		return nil, errors.ErrInvalidDateRange
	}

	status := req.Status
	if status == "" {
		status = models.BookingStatusReserved
	}
	// 新预订只能是已预订或直接入住（walk-in）
	if status != models.BookingStatusReserved && status != models.BookingStatusCheckedIn {
		return nil, errors.ErrInvalidParams.WithMessage("新预订状态只能是 Reserved 或 Checked-in")
	}

	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentStatusUnpaid
	}
	if !models.IsValidPaymentStatus(paymentStatus) {
		return nil, errors.ErrInvalidParams.WithMessage("无效的支付状态")
	}
	if req.PaidAmount < 0 {
		return nil, errors.ErrInvalidParams.WithMessage("已支付金额不能为负数")
	}

	room, err := s.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	nights := utils.NightsBetween(req.CheckInDate, req.CheckOutDate)
	totalCost := float64(nights) * room.PricePerNight

	booking := &models.Booking{
		GuestName:     req.GuestName,
		GuestContact:  req.GuestContact,
		RoomID:        req.RoomID,
		CheckInDate:   req.CheckInDate,
		CheckOutDate:  req.CheckOutDate,
		Status:        status,
		PaymentStatus: paymentStatus,
		TotalCost:     totalCost,
		PaidAmount:    req.PaidAmount,
		Notes:         req.Notes,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 事务内再次检查冲突，读检查和写入之间不允许并发插入
		overlaps, err := s.bookingRepo.WithTx(tx).ListOverlapping(ctx, req.RoomID, req.CheckInDate, req.CheckOutDate, "")
		if err != nil {
			return err
		}
		if len(overlaps) > 0 {
			return errors.ErrBookingConflict
		}

		if err := s.bookingRepo.WithTx(tx).Create(ctx, booking); err != nil {
			return err
		}

		if status == models.BookingStatusCheckedIn {
			if err := s.roomRepo.WithTx(tx).UpdateStatus(ctx, room.ID, models.RoomStatusOccupied); err != nil {
				return err
			}
		}

		return s.auditSvc.RecordTx(ctx, tx, actor, models.AuditActionBookingCreated, models.AuditEntityBooking, booking.ID, req)
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("预订已创建",
		logger.BookingID(booking.ID),
		logger.RoomID(room.ID),
		logger.String("guest_name", booking.GuestName),
	)
	metrics.GetMetrics().RecordBooking(booking.Status)

	booking.Room = room
	return booking, nil
}

// GetByID 获取预订详情
func (s *Service) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByIDWithRoom(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return booking, nil
}

// List 获取预订列表
func (s *Service) List(ctx context.Context, req *ListRequest) ([]*models.Booking, int64, error) {
	filters := map[string]interface{}{}
	if req.RoomID != "" {
		filters["room_id"] = req.RoomID
	}
	if req.Status != "" {
		filters["status"] = req.Status
	}
	if req.Guest != "" {
		filters["guest"] = req.Guest
	}
	if req.From != nil {
		filters["from"] = *req.From
	}
	if req.To != nil {
		filters["to"] = *req.To
	}

	bookings, total, err := s.bookingRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return bookings, total, nil
}

// Update 更新预订
// 读取、前置校验、冲突检查（排除自身）和写入在同一个事务内完成，
// 改期或换房时重算总价
func (s *Service) Update(ctx context.Context, actor audit.Actor, id string, req *UpdateRequest) (*models.Booking, error) {
	if req.PaymentStatus != nil && !models.IsValidPaymentStatus(*req.PaymentStatus) {
		return nil, errors.ErrInvalidParams.WithMessage("无效的支付状态")
	}
	if req.PaidAmount != nil && *req.PaidAmount < 0 {
		return nil, errors.ErrInvalidParams.WithMessage("已支付金额不能为负数")
	}

	var booking *models.Booking
	var room *models.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookingRepo.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrBookingNotFound
			}
			return err
		}
		if booking.IsTerminal() {
			return errors.ErrInvalidTransition.WithMessagef("预订当前状态为 %s，无法修改", booking.Status)
		}

		if req.GuestName != nil {
			booking.GuestName = *req.GuestName
		}
		if req.GuestContact != nil {
			booking.GuestContact = *req.GuestContact
		}
		if req.PaymentStatus != nil {
			booking.PaymentStatus = *req.PaymentStatus
		}
		if req.PaidAmount != nil {
			booking.PaidAmount = *req.PaidAmount
		}
		if req.Notes != nil {
			booking.Notes = req.Notes
		}

		datesChanged := false
		if req.CheckInDate != nil {
			booking.CheckInDate = *req.CheckInDate
			datesChanged = true
		}
		if req.CheckOutDate != nil {
			booking.CheckOutDate = *req.CheckOutDate
			datesChanged = true
		}
		roomChanged := req.RoomID != nil && *req.RoomID != booking.RoomID
		if roomChanged {
			booking.RoomID = *req.RoomID
		}

		if !booking.CheckInDate.Before(booking.CheckOutDate) {
			return errors.ErrInvalidDateRange
		}

		room, err = s.roomRepo.WithTx(tx).GetByID(ctx, booking.RoomID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrRoomNotFound
			}
			return err
		}

		if datesChanged || roomChanged {
			nights := utils.NightsBetween(booking.CheckInDate, booking.CheckOutDate)
			booking.TotalCost = float64(nights) * room.PricePerNight

			overlaps, err := s.bookingRepo.WithTx(tx).ListOverlapping(ctx, booking.RoomID, booking.CheckInDate, booking.CheckOutDate, booking.ID)
			if err != nil {
				return err
			}
			if len(overlaps) > 0 {
				return errors.ErrBookingConflict
			}
		}

		if err := s.bookingRepo.WithTx(tx).Update(ctx, booking); err != nil {
			return err
		}

		return s.auditSvc.RecordTx(ctx, tx, actor, models.AuditActionBookingUpdated, models.AuditEntityBooking, booking.ID, req)
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	booking.Room = room
	return booking, nil
}

// CheckIn 办理入住
// 只允许从已预订状态入住，入住后房间置为已入住
func (s *Service) CheckIn(ctx context.Context, actor audit.Actor, id string) (*models.Booking, error) {
	return s.transition(ctx, actor, id, models.BookingStatusCheckedIn, "入住",
		[]string{models.BookingStatusReserved},
		models.AuditActionBookingCheckedIn,
		func(tx *gorm.DB, booking *models.Booking) error {
			return s.roomRepo.WithTx(tx).UpdateStatus(ctx, booking.RoomID, models.RoomStatusOccupied)
		})
}

// CheckOut 办理退房
// 只允许从已入住状态退房，退房后房间恢复可用
func (s *Service) CheckOut(ctx context.Context, actor audit.Actor, id string) (*models.Booking, error) {
	return s.transition(ctx, actor, id, models.BookingStatusCheckedOut, "退房",
		[]string{models.BookingStatusCheckedIn},
		models.AuditActionBookingCheckedOut,
		func(tx *gorm.DB, booking *models.Booking) error {
			return s.roomRepo.WithTx(tx).UpdateStatus(ctx, booking.RoomID, models.RoomStatusAvailable)
		})
}

// Cancel 取消预订
// 已预订和已入住的预订可以取消，入住中取消时房间恢复可用
func (s *Service) Cancel(ctx context.Context, actor audit.Actor, id string) (*models.Booking, error) {
	return s.transition(ctx, actor, id, models.BookingStatusCancelled, "取消",
		[]string{models.BookingStatusReserved, models.BookingStatusCheckedIn},
		models.AuditActionBookingCancelled,
		func(tx *gorm.DB, booking *models.Booking) error {
			if booking.Status == models.BookingStatusCheckedIn {
				return s.roomRepo.WithTx(tx).UpdateStatus(ctx, booking.RoomID, models.RoomStatusAvailable)
			}
			return nil
		})
}

// transition 执行预订状态迁移
// 读取、前置状态校验、状态写入和房间联动在同一个事务内完成，
// 并发迁移不会基于过期的预订状态提交；roomSideEffect 拿到的是迁移前的预订
func (s *Service) transition(
	ctx context.Context,
	actor audit.Actor,
	id string,
	target string,
	op string,
	allowedFrom []string,
	auditAction string,
	roomSideEffect func(tx *gorm.DB, booking *models.Booking) error,
) (*models.Booking, error) {
	var booking *models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookingRepo.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrBookingNotFound
			}
			return err
		}

		if !utils.Contains(allowedFrom, booking.Status) {
			return errors.ErrInvalidTransition.WithMessagef(
				"预订当前状态为 %s，无法执行%s操作", booking.Status, op)
		}

		if err := s.bookingRepo.WithTx(tx).UpdateStatus(ctx, id, target); err != nil {
			return err
		}
		if roomSideEffect != nil {
			if err := roomSideEffect(tx, booking); err != nil {
				return err
			}
		}
		return s.auditSvc.RecordTx(ctx, tx, actor, auditAction, models.AuditEntityBooking, id, map[string]string{
			"from": booking.Status,
			"to":   target,
		})
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("预订状态已变更",
		logger.BookingID(id),
		logger.String("from", booking.Status),
		logger.String("to", target),
	)
	metrics.GetMetrics().RecordBooking(target)

	booking.Status = target
	return booking, nil
}

// Delete 删除预订
// 活跃预订（已预订或已入住）不能删除，需要先取消或退房；
// 活跃检查和删除在同一个事务内完成
func (s *Service) Delete(ctx context.Context, actor audit.Actor, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrBookingNotFound
			}
			return err
		}
		if booking.IsActive() {
			return errors.ErrBookingActive
		}

		if err := s.bookingRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}

		return s.auditSvc.RecordTx(ctx, tx, actor, models.AuditActionBookingDeleted, models.AuditEntityBooking, id, map[string]string{
			"guest_name": booking.GuestName,
			"status":     booking.Status,
		})
	})
	if err != nil {
		if errors.IsAppError(err) {
			return err
		}
		return errors.ErrDatabaseError.WithError(err)
	}

	return nil
}

// Upcoming 获取未来若干天内入住的预订
func (s *Service) Upcoming(ctx context.Context, days int) ([]*models.Booking, error) {
	if days <= 0 {
		days = 7
	}
	bookings, err := s.bookingRepo.ListUpcoming(ctx, days)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return bookings, nil
}

// TodayCheckIns 获取今日待入住的预订
func (s *Service) TodayCheckIns(ctx context.Context) ([]*models.Booking, error) {
	bookings, err := s.bookingRepo.ListTodayCheckIns(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return bookings, nil
}

// TodayCheckOuts 获取今日待退房的预订
func (s *Service) TodayCheckOuts(ctx context.Context) ([]*models.Booking, error) {
	bookings, err := s.bookingRepo.ListTodayCheckOuts(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return bookings, nil
}
