// Package repository 用户仓储单元测试
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

func setupUserTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err)

	return db
}

func newTestUser(email string) *models.User {
	return &models.User{
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Name:         "前台小王",
		Role:         models.UserRoleStaff,
	}
}

func TestUserRepository_Create(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newTestUser("staff@hotel.local")
	err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("staff@hotel.local")))

	// 邮箱唯一索引
	err := repo.Create(ctx, newTestUser("staff@hotel.local"))
	assert.Error(t, err)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newTestUser("admin@hotel.local")
	user.Role = models.UserRoleAdmin
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.GetByEmail(ctx, "admin@hotel.local")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, models.UserRoleAdmin, found.Role)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByEmail(context.Background(), "nobody@hotel.local")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_List_Filters(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	admin := newTestUser("admin@hotel.local")
	admin.Role = models.UserRoleAdmin
	admin.Name = "店长"
	require.NoError(t, repo.Create(ctx, admin))
	require.NoError(t, repo.Create(ctx, newTestUser("staff1@hotel.local")))
	require.NoError(t, repo.Create(ctx, newTestUser("staff2@hotel.local")))

	t.Run("按角色过滤", func(t *testing.T) {
		users, total, err := repo.List(ctx, map[string]interface{}{"role": models.UserRoleStaff})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, users, 2)
	})

	t.Run("按姓名搜索", func(t *testing.T) {
		users, _, err := repo.List(ctx, map[string]interface{}{"search": "店长"})
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("按邮箱搜索", func(t *testing.T) {
		users, _, err := repo.List(ctx, map[string]interface{}{"search": "staff1"})
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}

func TestUserRepository_Update(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newTestUser("staff@hotel.local")
	require.NoError(t, repo.Create(ctx, user))

	user.Name = "新名字"
	require.NoError(t, repo.Update(ctx, user))

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "新名字", found.Name)
}

func TestUserRepository_Delete(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newTestUser("staff@hotel.local")
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
