// Package repository 房间仓储单元测试
package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dumeirei/hotel-manager-backend/internal/models"
)

func setupRoomTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Room{})
	require.NoError(t, err)

	return db
}

func newTestRoom(roomNumber string) *models.Room {
	return &models.Room{
		RoomNumber:    roomNumber,
		Type:          models.RoomTypeDouble,
		Capacity:      2,
		PricePerNight: 150,
		Status:        models.RoomStatusAvailable,
		Amenities:     models.StringSlice{"WiFi", "空调"},
	}
}

func TestRoomRepository_Create(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room := newTestRoom("101")
	err := repo.Create(ctx, room)
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
}

func TestRoomRepository_Create_DuplicateRoomNumber(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestRoom("101")))

	// 房间号唯一索引
	err := repo.Create(ctx, newTestRoom("101"))
	assert.Error(t, err)
}

func TestRoomRepository_GetByID(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room := newTestRoom("101")
	require.NoError(t, repo.Create(ctx, room))

	found, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, found.ID)
	assert.Equal(t, "101", found.RoomNumber)
	assert.Equal(t, models.StringSlice{"WiFi", "空调"}, found.Amenities)
}

func TestRoomRepository_GetByID_NotFound(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)

	_, err := repo.GetByID(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoomRepository_GetByRoomNumber(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room := newTestRoom("203")
	require.NoError(t, repo.Create(ctx, room))

	found, err := repo.GetByRoomNumber(ctx, "203")
	require.NoError(t, err)
	assert.Equal(t, room.ID, found.ID)
}

func TestRoomRepository_List_Filters(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	r1 := newTestRoom("101")
	r2 := newTestRoom("102")
	r2.Type = models.RoomTypeSuite
	r2.Status = models.RoomStatusOccupied
	r3 := newTestRoom("201")
	r3.Status = models.RoomStatusMaintenance
	require.NoError(t, repo.Create(ctx, r1))
	require.NoError(t, repo.Create(ctx, r2))
	require.NoError(t, repo.Create(ctx, r3))

	t.Run("无过滤条件", func(t *testing.T) {
		rooms, total, err := repo.List(ctx, map[string]interface{}{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, rooms, 3)
		// 按房间号升序
		assert.Equal(t, "101", rooms[0].RoomNumber)
	})

	t.Run("按状态过滤", func(t *testing.T) {
		rooms, total, err := repo.List(ctx, map[string]interface{}{"status": models.RoomStatusOccupied})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "102", rooms[0].RoomNumber)
	})

	t.Run("按类型过滤", func(t *testing.T) {
		rooms, _, err := repo.List(ctx, map[string]interface{}{"type": models.RoomTypeSuite})
		require.NoError(t, err)
		assert.Len(t, rooms, 1)
	})

	t.Run("按房间号搜索", func(t *testing.T) {
		rooms, _, err := repo.List(ctx, map[string]interface{}{"search": "10"})
		require.NoError(t, err)
		assert.Len(t, rooms, 2)
	})
}

func TestRoomRepository_Update(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room := newTestRoom("101")
	require.NoError(t, repo.Create(ctx, room))

	room.PricePerNight = 180
	require.NoError(t, repo.Update(ctx, room))

	found, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(180), found.PricePerNight)
}

func TestRoomRepository_UpdateStatus(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room := newTestRoom("101")
	require.NoError(t, repo.Create(ctx, room))

	require.NoError(t, repo.UpdateStatus(ctx, room.ID, models.RoomStatusOccupied))

	found, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusOccupied, found.Status)
}

func TestRoomRepository_Delete(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room := newTestRoom("101")
	require.NoError(t, repo.Create(ctx, room))

	require.NoError(t, repo.Delete(ctx, room.ID))

	_, err := repo.GetByID(ctx, room.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoomRepository_CountByStatus(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	for i, status := range []string{
		models.RoomStatusAvailable,
		models.RoomStatusAvailable,
		models.RoomStatusOccupied,
		models.RoomStatusMaintenance,
	} {
		room := newTestRoom("10" + string(rune('1'+i)))
		room.Status = status
		require.NoError(t, repo.Create(ctx, room))
	}

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.RoomStatusAvailable])
	assert.Equal(t, int64(1), counts[models.RoomStatusOccupied])
	assert.Equal(t, int64(1), counts[models.RoomStatusMaintenance])
}

func TestRoomRepository_DeleteAll(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestRoom("101")))
	require.NoError(t, repo.Create(ctx, newTestRoom("102")))

	require.NoError(t, repo.DeleteAll(ctx))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
