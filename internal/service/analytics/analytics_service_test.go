// Package analytics 统计分析服务单元测试
package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dumeirei/hotel-manager-backend/internal/models"
	"github.com/dumeirei/hotel-manager-backend/internal/repository"
)

func setupAnalyticsService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Room{}, &models.Booking{})
	require.NoError(t, err)

	return NewService(repository.NewRoomRepository(db), repository.NewBookingRepository(db)), db
}

func analyticsDay(n int) time.Time {
	return time.Date(2026, 9, 1+n, 0, 0, 0, 0, time.UTC)
}

func seedRoom(t *testing.T, db *gorm.DB, number, status string) *models.Room {
	room := &models.Room{
		RoomNumber:    number,
		Type:          models.RoomTypeDouble,
		Capacity:      2,
		PricePerNight: 100,
		Status:        status,
	}
	require.NoError(t, db.Create(room).Error)
	return room
}

func seedBooking(t *testing.T, db *gorm.DB, roomID string, in, out time.Time, status string, total, paid float64) *models.Booking {
	booking := &models.Booking{
		GuestName:    "客人",
		GuestContact: "13800000000",
		RoomID:       roomID,
		CheckInDate:  in,
		CheckOutDate: out,
		Status:       status,
		TotalCost:    total,
		PaidAmount:   paid,
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}

// ==================== 入住率测试 ====================

func TestService_OccupancyRate(t *testing.T) {
	svc, db := setupAnalyticsService(t)
	ctx := context.Background()

	room1 := seedRoom(t, db, "101", models.RoomStatusAvailable)
	seedRoom(t, db, "102", models.RoomStatusAvailable)

	// 2 间房，7 天窗口，1 笔预订覆盖整个窗口 → 50%
	seedBooking(t, db, room1.ID, analyticsDay(0), analyticsDay(7), models.BookingStatusReserved, 700, 0)

	rate, err := svc.OccupancyRate(ctx, analyticsDay(0), analyticsDay(7))
	require.NoError(t, err)
	assert.Equal(t, 50.0, rate)
}

func TestService_OccupancyRate_ClampsToWindow(t *testing.T) {
	svc, db := setupAnalyticsService(t)
	ctx := context.Background()

	room := seedRoom(t, db, "101", models.RoomStatusAvailable)

	// 预订 [day-2, day3) 超出窗口 [day0, day4)，只计重叠的 3 晚
	seedBooking(t, db, room.ID, analyticsDay(-2), analyticsDay(3), models.BookingStatusReserved, 500, 0)

	rate, err := svc.OccupancyRate(ctx, analyticsDay(0), analyticsDay(4))
	require.NoError(t, err)
	// 3 / (1 × 4) = 75%
	assert.Equal(t, 75.0, rate)
}

func TestService_OccupancyRate_NotRounded(t *testing.T) {
	svc, db := setupAnalyticsService(t)
	ctx := context.Background()

	room := seedRoom(t, db, "101", models.RoomStatusAvailable)

	// 1 间房，7 天窗口，2 晚入住 → 2/7 ≈ 28.5714…%，按原始比例返回
	seedBooking(t, db, room.ID, analyticsDay(0), analyticsDay(2), models.BookingStatusReserved, 200, 0)

	rate, err := svc.OccupancyRate(ctx, analyticsDay(0), analyticsDay(7))
	require.NoError(t, err)
	assert.InDelta(t, 200.0/7.0, rate, 1e-9)
}

func TestService_OccupancyRate_ExcludesCancelled(t *testing.T) {
	svc, db := setupAnalyticsService(t)
	ctx := context.Background()

	room := seedRoom(t, db, "101", models.RoomStatusAvailable)
	seedBooking(t, db, room.ID, analyticsDay(0), analyticsDay(7), models.BookingStatusCancelled, 700, 0)

	rate, err := svc.OccupancyRate(ctx, analyticsDay(0), analyticsDay(7))
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)
}

func TestService_OccupancyRate_EdgeCases(t *testing.T) {
	svc, db := setupAnalyticsService(t)
	ctx := context.Background()

	// 没有房间
	rate, err := svc.OccupancyRate(ctx, analyticsDay(0), analyticsDay(7))
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)

	seedRoom(t, db, "101", models.RoomStatusAvailable)

	// 区间长度为零或倒置
	rate, err = svc.OccupancyRate(ctx, analyticsDay(3), analyticsDay(3))
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)

	rate, err = svc.OccupancyRate(ctx, analyticsDay(5), analyticsDay(3))
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)
}

// ==================== 营收测试 ====================

func TestService_Revenue(t *testing.T) {
	svc, db := setupAnalyticsService(t)
	ctx := context.Background()

	room := seedRoom(t, db, "101", models.RoomStatusAvailable)
	seedBooking(t, db, room.ID, analyticsDay(0), analyticsDay(3), models.BookingStatusCheckedOut, 300, 300)
	seedBooking(t, db, room.ID, analyticsDay(3), analyticsDay(4), models.BookingStatusReserved, 150, 50)
	seedBooking(t, db, room.ID, analyticsDay(4), analyticsDay(7), models.BookingStatusCheckedIn, 300, 0)
	// 取消的预订不计入
	seedBooking(t, db, room.ID, analyticsDay(7), analyticsDay(12), models.BookingStatusCancelled, 500, 0)

	summary, err := svc.Revenue(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 750.0, summary.Total)
	assert.Equal(t, 350.0, summary.Paid)
	assert.Equal(t, 400.0, summary.Pending)
}

func TestService_Revenue_WithWindow(t *testing.T) {
	svc, db := setupAnalyticsService(t)
	ctx := context.Background()

	room := seedRoom(t, db, "101", models.RoomStatusAvailable)
	seedBooking(t, db, room.ID, analyticsDay(0), analyticsDay(2), models.BookingStatusCheckedOut, 200, 200)
	seedBooking(t, db, room.ID, analyticsDay(10), analyticsDay(12), models.BookingStatusReserved, 200, 0)

	from := analyticsDay(0)
	to := analyticsDay(5)
	summary, err := svc.Revenue(ctx, &from, &to)
	require.NoError(t, err)
	// 只统计和窗口有重叠的预订
	assert.Equal(t, 200.0, summary.Total)
	assert.Equal(t, 200.0, summary.Paid)
	assert.Equal(t, 0.0, summary.Pending)
}

// ==================== 房态汇总与仪表盘测试 ====================

func TestService_RoomStatusCounts(t *testing.T) {
	svc, db := setupAnalyticsService(t)
	ctx := context.Background()

	seedRoom(t, db, "101", models.RoomStatusAvailable)
	seedRoom(t, db, "102", models.RoomStatusAvailable)
	seedRoom(t, db, "103", models.RoomStatusOccupied)
	seedRoom(t, db, "104", models.RoomStatusMaintenance)

	summary, err := svc.RoomStatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.Total)
	assert.Equal(t, int64(2), summary.Available)
	assert.Equal(t, int64(1), summary.Occupied)
	assert.Equal(t, int64(1), summary.Maintenance)
}

func TestService_Dashboard(t *testing.T) {
	svc, db := setupAnalyticsService(t)
	ctx := context.Background()

	room1 := seedRoom(t, db, "101", models.RoomStatusOccupied)
	room2 := seedRoom(t, db, "102", models.RoomStatusAvailable)

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// 今日退房中的预订
	seedBooking(t, db, room1.ID, today.AddDate(0, 0, -2), today, models.BookingStatusCheckedIn, 200, 200)
	// 今日入住的预订
	seedBooking(t, db, room2.ID, today, today.AddDate(0, 0, 2), models.BookingStatusReserved, 200, 0)

	from := today.AddDate(0, 0, -7)
	to := today.AddDate(0, 0, 7)
	summary, err := svc.Dashboard(ctx, &from, &to)
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.Rooms.Total)
	assert.Equal(t, int64(2), summary.BookingsTotal)
	assert.Equal(t, 1, summary.TodayCheckIns)
	assert.Equal(t, 1, summary.TodayCheckOuts)
	assert.Equal(t, 400.0, summary.Revenue.Total)
	assert.Greater(t, summary.OccupancyRate, 0.0)
}
