package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room 房间模型
type Room struct {
	ID            string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	RoomNumber    string      `gorm:"type:varchar(20);uniqueIndex;not null" json:"room_number"`
	Type          string      `gorm:"type:varchar(20);not null" json:"type"`
	Capacity      int         `gorm:"not null" json:"capacity"`
	PricePerNight float64     `gorm:"type:decimal(10,2);not null" json:"price_per_night"`
	Status        string      `gorm:"type:varchar(20);not null;default:'Available';index" json:"status"`
	Amenities     StringSlice `gorm:"type:text" json:"amenities"`
	Photos        StringSlice `gorm:"type:text" json:"photos,omitempty"`
	Notes         *string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (Room) TableName() string {
	return "rooms"
}

// BeforeCreate 创建前生成 UUID 主键
func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// RoomType 房间类型
const (
	RoomTypeSingle = "Single" // 单人间
	RoomTypeDouble = "Double" // 双人间
	RoomTypeSuite  = "Suite"  // 套房
	RoomTypeDeluxe = "Deluxe" // 豪华间
)

// RoomTypes 全部房间类型
var RoomTypes = []string{RoomTypeSingle, RoomTypeDouble, RoomTypeSuite, RoomTypeDeluxe}

// RoomStatus 房间状态
const (
	RoomStatusAvailable   = "Available"   // 可入住
	RoomStatusOccupied    = "Occupied"    // 已入住
	RoomStatusMaintenance = "Maintenance" // 维护中
)

// RoomStatuses 全部房间状态
var RoomStatuses = []string{RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance}

// IsValidRoomType 判断房间类型是否合法
func IsValidRoomType(t string) bool {
	for _, v := range RoomTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsValidRoomStatus 判断房间状态是否合法
func IsValidRoomStatus(s string) bool {
	for _, v := range RoomStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// CommonAmenities 常用设施清单
var CommonAmenities = []string{
	"WiFi", "TV", "Air Conditioning", "Mini Bar", "Room Service",
	"Safe", "Balcony", "Ocean View", "City View", "King Bed",
	"Queen Bed", "Twin Beds", "Bathroom", "Shower", "Bathtub",
	"Hair Dryer", "Coffee Maker", "Refrigerator", "Work Desk", "Closet",
}
