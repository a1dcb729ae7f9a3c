// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-manager-backend/internal/common/utils"
	"github.com/dumeirei/hotel-manager-backend/internal/models"
)

// BookingRepository 预订仓储
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository 创建预订仓储
func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// WithTx 返回绑定事务的仓储
func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{db: tx}
}

// Create 创建预订
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// GetByID 根据 ID 获取预订
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByIDWithRoom 根据 ID 获取预订（包含房间信息）
func (r *BookingRepository) GetByIDWithRoom(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// List 获取预订列表
func (r *BookingRepository) List(ctx context.Context, filters map[string]interface{}) ([]*models.Booking, int64, error) {
	var bookings []*models.Booking
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Booking{})

	// 应用过滤条件
	if roomID, ok := filters["room_id"].(string); ok && roomID != "" {
		query = query.Where("room_id = ?", roomID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if statuses, ok := filters["statuses"].([]string); ok && len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if guest, ok := filters["guest"].(string); ok && guest != "" {
		query = query.Where("guest_name LIKE ?", "%"+guest+"%")
	}
	if from, ok := filters["from"].(time.Time); ok {
		query = query.Where("check_out_date > ?", from)
	}
	if to, ok := filters["to"].(time.Time); ok {
		query = query.Where("check_in_date < ?", to)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.
		Preload("Room").
		Order("check_in_date DESC").
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// ListAll 获取全部预订
func (r *BookingRepository) ListAll(ctx context.Context) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).Order("check_in_date DESC").Find(&bookings).Error
	return bookings, err
}

// ListOverlapping 获取指定房间在日期区间内的冲突预订
// 区间按左闭右开 [checkIn, checkOut) 判定，只统计活跃状态的预订；
// excludeID 非空时排除该预订自身（用于更新时的冲突检查）
func (r *BookingRepository) ListOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	query := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.ActiveBookingStatuses).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Find(&bookings).Error
	return bookings, err
}

// ListActiveByRoom 获取房间的活跃预订
func (r *BookingRepository) ListActiveByRoom(ctx context.Context, roomID string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.ActiveBookingStatuses).
		Find(&bookings).Error
	return bookings, err
}

// ListInRange 获取与日期区间相交的预订（排除已取消）
func (r *BookingRepository) ListInRange(ctx context.Context, from, to time.Time) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).
		Where("status <> ?", models.BookingStatusCancelled).
		Where("check_in_date < ? AND check_out_date > ?", to, from).
		Find(&bookings).Error
	return bookings, err
}

// ListUpcoming 获取未来若干天内入住的预订
func (r *BookingRepository) ListUpcoming(ctx context.Context, days int) ([]*models.Booking, error) {
	var bookings []*models.Booking
	now := time.Now()
	until := utils.DayStart(now).AddDate(0, 0, days)
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("status = ?", models.BookingStatusReserved).
		Where("check_in_date >= ? AND check_in_date < ?", utils.DayStart(now), until).
		Order("check_in_date ASC").
		Find(&bookings).Error
	return bookings, err
}

// ListTodayCheckIns 获取今日待入住的预订
func (r *BookingRepository) ListTodayCheckIns(ctx context.Context) ([]*models.Booking, error) {
	var bookings []*models.Booking
	now := time.Now()
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("status = ?", models.BookingStatusReserved).
		Where("check_in_date >= ? AND check_in_date < ?", utils.DayStart(now), utils.DayEnd(now)).
		Order("check_in_date ASC").
		Find(&bookings).Error
	return bookings, err
}

// ListTodayCheckOuts 获取今日待退房的预订
func (r *BookingRepository) ListTodayCheckOuts(ctx context.Context) ([]*models.Booking, error) {
	var bookings []*models.Booking
	now := time.Now()
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("status = ?", models.BookingStatusCheckedIn).
		Where("check_out_date >= ? AND check_out_date < ?", utils.DayStart(now), utils.DayEnd(now)).
		Order("check_out_date ASC").
		Find(&bookings).Error
	return bookings, err
}

// Update 更新预订
func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

// UpdateFields 更新指定字段
func (r *BookingRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Updates(fields).Error
}

// UpdateStatus 更新预订状态
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Update("status", status).Error
}

// Delete 删除预订
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Booking{}).Error
}

// Count 统计预订总数
func (r *BookingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).Count(&count).Error
	return count, err
}

// CountByStatus 按状态统计预订数量
func (r *BookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// DeleteAll 清空预订表
func (r *BookingRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Booking{}).Error
}
