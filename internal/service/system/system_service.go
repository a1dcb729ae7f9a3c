// Package system 提供设置、数据备份和初始化服务
package system

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-manager-backend/internal/common/config"
	"github.com/dumeirei/hotel-manager-backend/internal/common/crypto"
	"github.com/dumeirei/hotel-manager-backend/internal/common/errors"
	"github.com/dumeirei/hotel-manager-backend/internal/common/logger"
	"github.com/dumeirei/hotel-manager-backend/internal/models"
	"github.com/dumeirei/hotel-manager-backend/internal/repository"
	"github.com/dumeirei/hotel-manager-backend/internal/service/audit"
)

// Service 系统服务
type Service struct {
	db           *gorm.DB
	cfg          *config.Config
	userRepo     *repository.UserRepository
	roomRepo     *repository.RoomRepository
	bookingRepo  *repository.BookingRepository
	sessionRepo  *repository.SessionRepository
	auditRepo    *repository.AuditLogRepository
	settingsRepo *repository.SettingsRepository
	auditSvc     *audit.Service
}

// NewService 创建系统服务
func NewService(
	db *gorm.DB,
	cfg *config.Config,
	userRepo *repository.UserRepository,
	roomRepo *repository.RoomRepository,
	bookingRepo *repository.BookingRepository,
	sessionRepo *repository.SessionRepository,
	auditRepo *repository.AuditLogRepository,
	settingsRepo *repository.SettingsRepository,
	auditSvc *audit.Service,
) *Service {
	return &Service{
		db:           db,
		cfg:          cfg,
		userRepo:     userRepo,
		roomRepo:     roomRepo,
		bookingRepo:  bookingRepo,
		sessionRepo:  sessionRepo,
		auditRepo:    auditRepo,
		settingsRepo: settingsRepo,
		auditSvc:     auditSvc,
	}
}

// GetSettings 获取应用设置
func (s *Service) GetSettings(ctx context.Context) (*models.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return settings, nil
}

// UpdateSettings 更新应用设置
func (s *Service) UpdateSettings(ctx context.Context, theme string) (*models.Settings, error) {
	if !models.IsValidTheme(theme) {
		return nil, errors.ErrInvalidParams.WithMessage("无效的主题")
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	settings.Theme = theme

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return settings, nil
}

// Backup 全量备份文档
type Backup struct {
	Users      []*models.User     `json:"users"`
	Rooms      []*models.Room     `json:"rooms"`
	Bookings   []*models.Booking  `json:"bookings"`
	Settings   *models.Settings   `json:"settings"`
	AuditLogs  []*models.AuditLog `json:"auditLogs"`
	ExportedAt time.Time          `json:"exportedAt"`
}

// Export 导出全部数据
func (s *Service) Export(ctx context.Context, actor audit.Actor) (*Backup, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.ErrExportFailed.WithError(err)
	}
	rooms, err := s.roomRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.ErrExportFailed.WithError(err)
	}
	bookings, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.ErrExportFailed.WithError(err)
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, errors.ErrExportFailed.WithError(err)
	}
	auditLogs, err := s.auditRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.ErrExportFailed.WithError(err)
	}

	backup := &Backup{
		Users:      users,
		Rooms:      rooms,
		Bookings:   bookings,
		Settings:   settings,
		AuditLogs:  auditLogs,
		ExportedAt: time.Now(),
	}

	logger.Info("数据导出完成",
		logger.Int("users", len(users)),
		logger.Int("rooms", len(rooms)),
		logger.Int("bookings", len(bookings)),
	)
	s.auditSvc.Record(ctx, actor, models.AuditActionDataExported, models.AuditEntitySystem, "", map[string]int{
		"users":    len(users),
		"rooms":    len(rooms),
		"bookings": len(bookings),
	})

	return backup, nil
}

// backupDocument 导入时的宽松解析结构，用于区分格式错误和字段缺失
type backupDocument struct {
	Users    *json.RawMessage `json:"users"`
	Rooms    *json.RawMessage `json:"rooms"`
	Bookings *json.RawMessage `json:"bookings"`
}

// Import 导入备份数据，单事务整表替换
// JSON 非法或者缺少全部预期数组字段时拒绝导入
func (s *Service) Import(ctx context.Context, actor audit.Actor, data []byte) error {
	var doc backupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.ErrInvalidBackupFormat.WithError(err)
	}
	if doc.Users == nil && doc.Rooms == nil && doc.Bookings == nil {
		return errors.ErrInvalidBackupFormat.WithMessage("备份数据缺少 users/rooms/bookings 字段")
	}

	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return errors.ErrInvalidBackupFormat.WithError(err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.roomRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.bookingRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.auditRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.settingsRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.sessionRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}

		for _, user := range backup.Users {
			if err := tx.Create(user).Error; err != nil {
				return err
			}
		}
		for _, room := range backup.Rooms {
			if err := tx.Create(room).Error; err != nil {
				return err
			}
		}
		for _, booking := range backup.Bookings {
			if err := tx.Create(booking).Error; err != nil {
				return err
			}
		}
		for _, log := range backup.AuditLogs {
			if err := tx.Create(log).Error; err != nil {
				return err
			}
		}
		if backup.Settings != nil {
			if err := s.settingsRepo.WithTx(tx).Save(ctx, backup.Settings); err != nil {
				return err
			}
		}

		return s.auditSvc.RecordTx(ctx, tx, actor, models.AuditActionDataImported, models.AuditEntitySystem, "", map[string]int{
			"users":    len(backup.Users),
			"rooms":    len(backup.Rooms),
			"bookings": len(backup.Bookings),
		})
	})
	if err != nil {
		if errors.IsAppError(err) {
			return err
		}
		return errors.ErrImportFailed.WithError(err)
	}

	logger.Info("数据导入完成",
		logger.Int("users", len(backup.Users)),
		logger.Int("rooms", len(backup.Rooms)),
		logger.Int("bookings", len(backup.Bookings)),
	)
	return nil
}

// Reset 清空业务数据
// 清掉用户、房间、预订、审计日志和会话；设置保留
func (s *Service) Reset(ctx context.Context, actor audit.Actor) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.roomRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.bookingRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.auditRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.sessionRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}
		return s.auditSvc.RecordTx(ctx, tx, actor, models.AuditActionDataReset, models.AuditEntitySystem, "", nil)
	})
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	logger.Warn("业务数据已重置", logger.UserID(actor.UserID))
	return nil
}

// Seed 首次运行初始化
// 用户表为空时创建默认管理员，并按配置写入示例房间
func (s *Service) Seed(ctx context.Context) error {
	if !s.cfg.Seed.Enabled {
		return nil
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if count > 0 {
		return nil
	}

	hash, err := crypto.HashPassword(s.cfg.Seed.AdminPassword, s.cfg.Crypto.BcryptCost)
	if err != nil {
		return errors.ErrInternalError.WithError(err)
	}

	admin := &models.User{
		Email:        s.cfg.Seed.AdminEmail,
		PasswordHash: hash,
		Name:         s.cfg.Seed.AdminName,
		Role:         models.UserRoleAdmin,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, admin); err != nil {
			return err
		}
		if s.cfg.Seed.SampleRooms {
			for _, room := range sampleRooms() {
				if err := s.roomRepo.WithTx(tx).Create(ctx, room); err != nil {
					return err
				}
			}
		}
		return s.auditSvc.RecordTx(ctx, tx, audit.SystemActor, models.AuditActionUserCreated, models.AuditEntityUser, admin.ID, map[string]string{
			"email": admin.Email,
			"role":  admin.Role,
		})
	})
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("初始数据已写入",
		logger.String("admin_email", crypto.MaskEmail(admin.Email)),
		logger.Bool("sample_rooms", s.cfg.Seed.SampleRooms),
	)
	return nil
}

// sampleRooms 示例房间集合
func sampleRooms() []*models.Room {
	return []*models.Room{
		{RoomNumber: "101", Type: models.RoomTypeSingle, Capacity: 1, PricePerNight: 188, Status: models.RoomStatusAvailable, Amenities: models.StringSlice{"WiFi", "空调"}},
		{RoomNumber: "102", Type: models.RoomTypeSingle, Capacity: 1, PricePerNight: 188, Status: models.RoomStatusAvailable, Amenities: models.StringSlice{"WiFi", "空调"}},
		{RoomNumber: "201", Type: models.RoomTypeDouble, Capacity: 2, PricePerNight: 288, Status: models.RoomStatusAvailable, Amenities: models.StringSlice{"WiFi", "空调", "电视"}},
		{RoomNumber: "202", Type: models.RoomTypeDouble, Capacity: 2, PricePerNight: 288, Status: models.RoomStatusAvailable, Amenities: models.StringSlice{"WiFi", "空调", "电视"}},
		{RoomNumber: "301", Type: models.RoomTypeSuite, Capacity: 4, PricePerNight: 588, Status: models.RoomStatusAvailable, Amenities: models.StringSlice{"WiFi", "空调", "电视", "浴缸"}},
		{RoomNumber: "302", Type: models.RoomTypeDeluxe, Capacity: 2, PricePerNight: 888, Status: models.RoomStatusAvailable, Amenities: models.StringSlice{"WiFi", "空调", "电视", "浴缸", "海景"}},
	}
}
