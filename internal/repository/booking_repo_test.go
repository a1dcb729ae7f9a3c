// Package repository 预订仓储单元测试
package repository

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
)

func setupBookingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Room{}, &models.Booking{})
	require.NoError(t, err)

	return db
}

func bookingDay(n int) time.Time {
	return time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func newTestBooking(roomID string, checkIn, checkOut time.Time, status string) *models.Booking {
	return &models.Booking{
		GuestName:     "张三",
		GuestContact:  "zhangsan@example.com",
		RoomID:        roomID,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Status:        status,
		PaymentStatus: models.PaymentStatusUnpaid,
		TotalCost:     300,
	}
}

func createBookingTestRoom(t *testing.T, db *gorm.DB, roomNumber string) *models.Room {
	room := &models.Room{
		RoomNumber:    roomNumber,
		Type:          models.RoomTypeDouble,
		Capacity:      2,
		PricePerNight: 150,
		Status:        models.RoomStatusAvailable,
	}
	require.NoError(t, db.Create(room).Error)
	return room
}

func TestBookingRepository_Create(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	room := createBookingTestRoom(t, db, "101")
	booking := newTestBooking(room.ID, bookingDay(0), bookingDay(2), models.BookingStatusReserved)

	err := repo.Create(ctx, booking)
	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
}

func TestBookingRepository_GetByIDWithRoom(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	room := createBookingTestRoom(t, db, "101")
	booking := newTestBooking(room.ID, bookingDay(0), bookingDay(2), models.BookingStatusReserved)
	require.NoError(t, repo.Create(ctx, booking))

	found, err := repo.GetByIDWithRoom(ctx, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Room)
	assert.Equal(t, "101", found.Room.RoomNumber)
}

// ==================== 冲突查询测试 ====================

func TestBookingRepository_ListOverlapping(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	room := createBookingTestRoom(t, db, "101")
	existing := newTestBooking(room.ID, bookingDay(0), bookingDay(3), models.BookingStatusReserved)
	require.NoError(t, repo.Create(ctx, existing))

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{"完全包含现有预订", bookingDay(0), bookingDay(3), 1},
		{"内部子区间", bookingDay(1), bookingDay(2), 1},
		{"前端部分重叠", bookingDay(2), bookingDay(5), 1},
		{"后端部分重叠", bookingDay(-2), bookingDay(1), 1},
		{"背靠背：现有退房日入住", bookingDay(3), bookingDay(5), 0},
		{"背靠背：现有入住日退房", bookingDay(-2), bookingDay(0), 0},
		{"完全分离", bookingDay(5), bookingDay(8), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overlaps, err := repo.ListOverlapping(ctx, room.ID, tt.checkIn, tt.checkOut, "")
			require.NoError(t, err)
			assert.Len(t, overlaps, tt.want)
		})
	}
}

func TestBookingRepository_ListOverlapping_IgnoresTerminalStatuses(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	room := createBookingTestRoom(t, db, "101")

	cancelled := newTestBooking(room.ID, bookingDay(0), bookingDay(3), models.BookingStatusCancelled)
	require.NoError(t, repo.Create(ctx, cancelled))
	checkedOut := newTestBooking(room.ID, bookingDay(0), bookingDay(3), models.BookingStatusCheckedOut)
	require.NoError(t, repo.Create(ctx, checkedOut))

	// 已取消和已退房的预订不占用房间
	overlaps, err := repo.ListOverlapping(ctx, room.ID, bookingDay(1), bookingDay(2), "")
	require.NoError(t, err)
	assert.Empty(t, overlaps)
}

func TestBookingRepository_ListOverlapping_ExcludesSelf(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	room := createBookingTestRoom(t, db, "101")
	booking := newTestBooking(room.ID, bookingDay(0), bookingDay(3), models.BookingStatusReserved)
	require.NoError(t, repo.Create(ctx, booking))

	// 更新自身日期时不应和自己冲突
	overlaps, err := repo.ListOverlapping(ctx, room.ID, bookingDay(1), bookingDay(4), booking.ID)
	require.NoError(t, err)
	assert.Empty(t, overlaps)
}

func TestBookingRepository_ListOverlapping_OtherRoomDoesNotConflict(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	room1 := createBookingTestRoom(t, db, "101")
	room2 := createBookingTestRoom(t, db, "102")
	require.NoError(t, repo.Create(ctx, newTestBooking(room1.ID, bookingDay(0), bookingDay(3), models.BookingStatusReserved)))

	overlaps, err := repo.ListOverlapping(ctx, room2.ID, bookingDay(0), bookingDay(3), "")
	require.NoError(t, err)
	assert.Empty(t, overlaps)
}

// ==================== 列表查询测试 ====================

func TestBookingRepository_List_Filters(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	room1 := createBookingTestRoom(t, db, "101")
	room2 := createBookingTestRoom(t, db, "102")

	b1 := newTestBooking(room1.ID, bookingDay(0), bookingDay(2), models.BookingStatusReserved)
	b2 := newTestBooking(room2.ID, bookingDay(1), bookingDay(3), models.BookingStatusCheckedIn)
	b2.GuestName = "李四"
	b3 := newTestBooking(room1.ID, bookingDay(5), bookingDay(7), models.BookingStatusCancelled)
	require.NoError(t, repo.Create(ctx, b1))
	require.NoError(t, repo.Create(ctx, b2))
	require.NoError(t, repo.Create(ctx, b3))

	t.Run("按房间过滤", func(t *testing.T) {
		bookings, total, err := repo.List(ctx, map[string]interface{}{"room_id": room1.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, bookings, 2)
	})

	t.Run("按状态过滤", func(t *testing.T) {
		bookings, _, err := repo.List(ctx, map[string]interface{}{"status": models.BookingStatusCheckedIn})
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, "李四", bookings[0].GuestName)
	})

	t.Run("按多状态过滤", func(t *testing.T) {
		bookings, _, err := repo.List(ctx, map[string]interface{}{"statuses": models.ActiveBookingStatuses})
		require.NoError(t, err)
		assert.Len(t, bookings, 2)
	})

	t.Run("按客人姓名搜索", func(t *testing.T) {
		bookings, _, err := repo.List(ctx, map[string]interface{}{"guest": "李"})
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
	})

	t.Run("按日期窗口过滤", func(t *testing.T) {
		bookings, _, err := repo.List(ctx, map[string]interface{}{
			"from": bookingDay(4),
			"to":   bookingDay(10),
		})
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
	})
}

func TestBookingRepository_ListInRange_ExcludesCancelled(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	room := createBookingTestRoom(t, db, "101")
	require.NoError(t, repo.Create(ctx, newTestBooking(room.ID, bookingDay(0), bookingDay(2), models.BookingStatusCheckedOut)))
	require.NoError(t, repo.Create(ctx, newTestBooking(room.ID, bookingDay(2), bookingDay(4), models.BookingStatusCancelled)))

	bookings, err := repo.ListInRange(ctx, bookingDay(0), bookingDay(10))
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, models.BookingStatusCheckedOut, bookings[0].Status)
}

func TestBookingRepository_TodayLists(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	room := createBookingTestRoom(t, db, "101")
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 14, 0, 0, 0, now.Location())

	checkInToday := newTestBooking(room.ID, today, today.AddDate(0, 0, 2), models.BookingStatusReserved)
	require.NoError(t, repo.Create(ctx, checkInToday))
	checkOutToday := newTestBooking(room.ID, today.AddDate(0, 0, -2), today, models.BookingStatusCheckedIn)
	require.NoError(t, repo.Create(ctx, checkOutToday))

	checkIns, err := repo.ListTodayCheckIns(ctx)
	require.NoError(t, err)
	require.Len(t, checkIns, 1)
	assert.Equal(t, checkInToday.ID, checkIns[0].ID)

	checkOuts, err := repo.ListTodayCheckOuts(ctx)
	require.NoError(t, err)
	require.Len(t, checkOuts, 1)
	assert.Equal(t, checkOutToday.ID, checkOuts[0].ID)
}

func TestBookingRepository_ListUpcoming(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	room := createBookingTestRoom(t, db, "101")
	now := time.Now()

	soon := newTestBooking(room.ID, now.AddDate(0, 0, 2), now.AddDate(0, 0, 4), models.BookingStatusReserved)
	require.NoError(t, repo.Create(ctx, soon))
	far := newTestBooking(room.ID, now.AddDate(0, 0, 30), now.AddDate(0, 0, 32), models.BookingStatusReserved)
	require.NoError(t, repo.Create(ctx, far))

	upcoming, err := repo.ListUpcoming(ctx, 7)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, soon.ID, upcoming[0].ID)
}

// ==================== 更新和删除测试 ====================

func TestBookingRepository_UpdateStatus(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	room := createBookingTestRoom(t, db, "101")
	booking := newTestBooking(room.ID, bookingDay(0), bookingDay(2), models.BookingStatusReserved)
	require.NoError(t, repo.Create(ctx, booking))

	require.NoError(t, repo.UpdateStatus(ctx, booking.ID, models.BookingStatusCheckedIn))

	found, err := repo.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCheckedIn, found.Status)
}

func TestBookingRepository_Delete(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	room := createBookingTestRoom(t, db, "101")
	booking := newTestBooking(room.ID, bookingDay(0), bookingDay(2), models.BookingStatusReserved)
	require.NoError(t, repo.Create(ctx, booking))

	require.NoError(t, repo.Delete(ctx, booking.ID))

	_, err := repo.GetByID(ctx, booking.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBookingRepository_CountByStatus(t *testing.T) {
	db := setupBookingTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	room := createBookingTestRoom(t, db, "101")
	for _, status := range []string{
		models.BookingStatusReserved,
		models.BookingStatusReserved,
		models.BookingStatusCheckedIn,
		models.BookingStatusCancelled,
	} {
		require.NoError(t, repo.Create(ctx, newTestBooking(room.ID, bookingDay(0), bookingDay(2), status)))
	}

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.BookingStatusReserved])
	assert.Equal(t, int64(1), counts[models.BookingStatusCheckedIn])
	assert.Equal(t, int64(1), counts[models.BookingStatusCancelled])
}
