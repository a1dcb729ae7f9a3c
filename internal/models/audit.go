package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog 审计日志，只追加不修改
type AuditLog struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	UserName   string    `gorm:"type:varchar(100);not null" json:"user_name"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType *string   `gorm:"type:varchar(20)" json:"entity_type,omitempty"`
	EntityID   *string   `gorm:"type:varchar(36)" json:"entity_id,omitempty"`
	Details    *string   `gorm:"type:text" json:"details,omitempty"`
	Timestamp  time.Time `gorm:"not null;index" json:"timestamp"`
}

// TableName 表名
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate 创建前生成 UUID 主键并补齐时间戳
func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	return nil
}

// AuditAction 审计动作
const (
	AuditActionUserCreated       = "user_created"
	AuditActionUserUpdated       = "user_updated"
	AuditActionUserDeleted       = "user_deleted"
	AuditActionRoomCreated       = "room_created"
	AuditActionRoomUpdated       = "room_updated"
	AuditActionRoomDeleted       = "room_deleted"
	AuditActionBookingCreated    = "booking_created"
	AuditActionBookingUpdated    = "booking_updated"
	AuditActionBookingCancelled  = "booking_cancelled"
	AuditActionBookingCheckedIn  = "booking_checked_in"
	AuditActionBookingCheckedOut = "booking_checked_out"
	AuditActionBookingDeleted    = "booking_deleted"
	AuditActionUserSignedIn      = "user_signed_in"
	AuditActionUserSignedOut     = "user_signed_out"
	AuditActionDataExported      = "data_exported"
	AuditActionDataImported      = "data_imported"
	AuditActionDataReset         = "data_reset"
)

// AuditEntityType 审计对象类型
const (
	AuditEntityUser    = "user"
	AuditEntityRoom    = "room"
	AuditEntityBooking = "booking"
	AuditEntitySystem  = "system"
)
