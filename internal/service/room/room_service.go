// Package room 提供房间管理服务
package room

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-manager-backend/internal/common/errors"
	"github.com/dumeirei/hotel-manager-backend/internal/common/logger"
	"github.com/dumeirei/hotel-manager-backend/internal/models"
	"github.com/dumeirei/hotel-manager-backend/internal/repository"
	"github.com/dumeirei/hotel-manager-backend/internal/service/audit"
)

// Service 房间服务
type Service struct {
	db          *gorm.DB
	roomRepo    *repository.RoomRepository
	bookingRepo *repository.BookingRepository
	auditSvc    *audit.Service
}

// NewService 创建房间服务
func NewService(
	db *gorm.DB,
	roomRepo *repository.RoomRepository,
	bookingRepo *repository.BookingRepository,
	auditSvc *audit.Service,
) *Service {
	return &Service{
		db:          db,
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		auditSvc:    auditSvc,
	}
}

// CreateRequest 创建房间请求
type CreateRequest struct {
	RoomNumber    string   `json:"room_number" binding:"required"`
	Type          string   `json:"type" binding:"required"`
	Capacity      int      `json:"capacity" binding:"required,min=1"`
	PricePerNight float64  `json:"price_per_night" binding:"required,gt=0"`
	Status        string   `json:"status"`
	Amenities     []string `json:"amenities"`
	Photos        []string `json:"photos"`
	Notes         *string  `json:"notes"`
}

// UpdateRequest 更新房间请求
type UpdateRequest struct {
	RoomNumber    *string  `json:"room_number"`
	Type          *string  `json:"type"`
	Capacity      *int     `json:"capacity"`
	PricePerNight *float64 `json:"price_per_night"`
	Status        *string  `json:"status"`
	Amenities     []string `json:"amenities"`
	Photos        []string `json:"photos"`
	Notes         *string  `json:"notes"`
}

// ListRequest 房间列表请求
type ListRequest struct {
	Status      string
	Type        string
	MinCapacity int
	MaxPrice    float64
	Search      string
}

// Create 创建房间
func (s *Service) Create(ctx context.Context, actor audit.Actor, req *CreateRequest) (*models.Room, error) {
	if !models.IsValidRoomType(req.Type) {
		return nil, errors.ErrInvalidParams.WithMessage("无效的房间类型")
	}
	status := req.Status
	if status == "" {
		status = models.RoomStatusAvailable
	}
	if !models.IsValidRoomStatus(status) {
		return nil, errors.ErrInvalidParams.WithMessage("无效的房间状态")
	}
	if req.Capacity <= 0 {
		return nil, errors.ErrInvalidParams.WithMessage("容纳人数必须大于零")
	}
	if req.PricePerNight <= 0 {
		return nil, errors.ErrInvalidParams.WithMessage("每晚价格必须大于零")
	}

	room := &models.Room{
		RoomNumber:    req.RoomNumber,
		Type:          req.Type,
		Capacity:      req.Capacity,
		PricePerNight: req.PricePerNight,
		Status:        status,
		Amenities:     models.StringSlice(req.Amenities),
		Photos:        models.StringSlice(req.Photos),
		Notes:         req.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 事务内检查房间号唯一性，读检查和写入之间不允许并发插入
		if _, err := s.roomRepo.WithTx(tx).GetByRoomNumber(ctx, req.RoomNumber); err == nil {
			return errors.ErrRoomNumberExists
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		if err := s.roomRepo.WithTx(tx).Create(ctx, room); err != nil {
			return err
		}

		return s.auditSvc.RecordTx(ctx, tx, actor, models.AuditActionRoomCreated, models.AuditEntityRoom, room.ID, req)
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("房间已创建", logger.RoomID(room.ID), logger.String("room_number", room.RoomNumber))
	return room, nil
}

// GetByID 获取房间详情
func (s *Service) GetByID(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return room, nil
}

// List 获取房间列表
func (s *Service) List(ctx context.Context, req *ListRequest) ([]*models.Room, int64, error) {
	filters := map[string]interface{}{}
	if req.Status != "" {
		filters["status"] = req.Status
	}
	if req.Type != "" {
		filters["type"] = req.Type
	}
	if req.MinCapacity > 0 {
		filters["min_capacity"] = req.MinCapacity
	}
	if req.MaxPrice > 0 {
		filters["max_price"] = req.MaxPrice
	}
	if req.Search != "" {
		filters["search"] = req.Search
	}

	rooms, total, err := s.roomRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return rooms, total, nil
}

// Update 更新房间
// 房间号改名时的唯一性检查和写入在同一个事务内完成
func (s *Service) Update(ctx context.Context, actor audit.Actor, id string, req *UpdateRequest) (*models.Room, error) {
	if req.Type != nil && !models.IsValidRoomType(*req.Type) {
		return nil, errors.ErrInvalidParams.WithMessage("无效的房间类型")
	}
	if req.Capacity != nil && *req.Capacity <= 0 {
		return nil, errors.ErrInvalidParams.WithMessage("容纳人数必须大于零")
	}
	if req.PricePerNight != nil && *req.PricePerNight <= 0 {
		return nil, errors.ErrInvalidParams.WithMessage("每晚价格必须大于零")
	}
	if req.Status != nil && !models.IsValidRoomStatus(*req.Status) {
		return nil, errors.ErrInvalidParams.WithMessage("无效的房间状态")
	}

	var room *models.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = s.roomRepo.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrRoomNotFound
			}
			return err
		}

		if req.RoomNumber != nil && *req.RoomNumber != room.RoomNumber {
			// 新房间号不能和其他房间冲突
			if existing, err := s.roomRepo.WithTx(tx).GetByRoomNumber(ctx, *req.RoomNumber); err == nil && existing.ID != id {
				return errors.ErrRoomNumberExists
			} else if err != nil && err != gorm.ErrRecordNotFound {
				return err
			}
			room.RoomNumber = *req.RoomNumber
		}
		if req.Type != nil {
			room.Type = *req.Type
		}
		if req.Capacity != nil {
			room.Capacity = *req.Capacity
		}
		if req.PricePerNight != nil {
			room.PricePerNight = *req.PricePerNight
		}
		if req.Status != nil {
			room.Status = *req.Status
		}
		if req.Amenities != nil {
			room.Amenities = models.StringSlice(req.Amenities)
		}
		if req.Photos != nil {
			room.Photos = models.StringSlice(req.Photos)
		}
		if req.Notes != nil {
			room.Notes = req.Notes
		}

		if err := s.roomRepo.WithTx(tx).Update(ctx, room); err != nil {
			return err
		}

		return s.auditSvc.RecordTx(ctx, tx, actor, models.AuditActionRoomUpdated, models.AuditEntityRoom, room.ID, req)
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return room, nil
}

// Delete 删除房间
// 房间存在活跃预订（已预订或已入住）时拒绝删除
func (s *Service) Delete(ctx context.Context, actor audit.Actor, id string) error {
	room, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	active, err := s.bookingRepo.ListActiveByRoom(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if len(active) > 0 {
		return errors.ErrRoomHasActiveBookings
	}

	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("房间已删除", logger.RoomID(id), logger.String("room_number", room.RoomNumber))
	s.auditSvc.Record(ctx, actor, models.AuditActionRoomDeleted, models.AuditEntityRoom, id, map[string]string{
		"room_number": room.RoomNumber,
	})

	return nil
}

// GetAvailableRooms 查询日期区间内可预订的房间
// 只扫描状态为 Available 的房间，再剔除区间内已有活跃预订的房间
func (s *Service) GetAvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]*models.Room, error) {
	if !checkIn.Before(checkOut) {
		return nil, errors.ErrInvalidDateRange
	}

	rooms, err := s.roomRepo.ListByStatus(ctx, models.RoomStatusAvailable)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	available := make([]*models.Room, 0, len(rooms))
	for _, r := range rooms {
		overlaps, err := s.bookingRepo.ListOverlapping(ctx, r.ID, checkIn, checkOut, "")
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		if len(overlaps) == 0 {
			available = append(available, r)
		}
	}

	return available, nil
}
