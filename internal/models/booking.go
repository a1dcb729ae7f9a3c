package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking 预订模型
// 入住时间区间为半开区间 [CheckInDate, CheckOutDate)，退房日与下一单的入住日可以重合
type Booking struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	GuestName     string    `gorm:"type:varchar(100);not null;index" json:"guest_name"`
	GuestContact  string    `gorm:"type:varchar(100);not null" json:"guest_contact"`
	RoomID        string    `gorm:"type:varchar(36);not null;index" json:"room_id"`
	CheckInDate   time.Time `gorm:"not null;index" json:"check_in_date"`
	CheckOutDate  time.Time `gorm:"not null;index" json:"check_out_date"`
	Status        string    `gorm:"type:varchar(20);not null;default:'Reserved';index" json:"status"`
	PaymentStatus string    `gorm:"type:varchar(20);not null;default:'Unpaid'" json:"payment_status"`
	TotalCost     float64   `gorm:"type:decimal(12,2);not null" json:"total_cost"`
	PaidAmount    float64   `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	Notes         *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// TableName 表名
func (Booking) TableName() string {
	return "bookings"
}

// BeforeCreate 创建前生成 UUID 主键
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// BookingStatus 预订状态
const (
	BookingStatusReserved   = "Reserved"    // 已预订
	BookingStatusCheckedIn  = "Checked-in"  // 已入住
	BookingStatusCheckedOut = "Checked-out" // 已退房（终态）
	BookingStatusCancelled  = "Cancelled"   // 已取消（终态）
)

// BookingStatuses 全部预订状态
var BookingStatuses = []string{
	BookingStatusReserved,
	BookingStatusCheckedIn,
	BookingStatusCheckedOut,
	BookingStatusCancelled,
}

// ActiveBookingStatuses 活跃状态：参与冲突检测和占用统计
var ActiveBookingStatuses = []string{BookingStatusReserved, BookingStatusCheckedIn}

// PaymentStatus 支付状态
const (
	PaymentStatusUnpaid  = "Unpaid"  // 未支付
	PaymentStatusPartial = "Partial" // 部分支付
	PaymentStatusPaid    = "Paid"    // 已支付
)

// PaymentStatuses 全部支付状态
var PaymentStatuses = []string{PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid}

// IsActive 是否为活跃预订（已预订或已入住）
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusReserved || b.Status == BookingStatusCheckedIn
}

// IsTerminal 是否处于终态（已退房或已取消）
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCheckedOut || b.Status == BookingStatusCancelled
}

// IsValidBookingStatus 判断预订状态是否合法
func IsValidBookingStatus(s string) bool {
	for _, v := range BookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValidPaymentStatus 判断支付状态是否合法
func IsValidPaymentStatus(s string) bool {
	for _, v := range PaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}
