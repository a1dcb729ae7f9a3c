// Package repository 会话仓储单元测试
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

func setupSessionTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Session{})
	require.NoError(t, err)

	return db
}

func newTestSession(userID, token string, expiresAt time.Time) *models.Session {
	return &models.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
}

func TestSessionRepository_CreateAndGetByToken(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	session := newTestSession("user-1", "token-abc", time.Now().Add(24*time.Hour))
	require.NoError(t, repo.Create(ctx, session))
	assert.NotEmpty(t, session.ID)

	found, err := repo.GetByToken(ctx, "token-abc")
	require.NoError(t, err)
	assert.Equal(t, "user-1", found.UserID)
	assert.False(t, found.IsExpired())
}

func TestSessionRepository_GetByToken_NotFound(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewSessionRepository(db)

	_, err := repo.GetByToken(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSessionRepository_DeleteByToken(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	session := newTestSession("user-1", "token-abc", time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, session))

	require.NoError(t, repo.DeleteByToken(ctx, "token-abc"))

	_, err := repo.GetByToken(ctx, "token-abc")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSessionRepository_DeleteByUser(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestSession("user-1", "t1", time.Now().Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newTestSession("user-1", "t2", time.Now().Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newTestSession("user-2", "t3", time.Now().Add(time.Hour))))

	require.NoError(t, repo.DeleteByUser(ctx, "user-1"))

	sessions, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// 其他用户的会话不受影响
	sessions, err = repo.ListByUser(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestSession("user-1", "expired-1", time.Now().Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, newTestSession("user-1", "expired-2", time.Now().Add(-time.Minute))))
	require.NoError(t, repo.Create(ctx, newTestSession("user-1", "active", time.Now().Add(time.Hour))))

	deleted, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSession_IsExpired(t *testing.T) {
	expired := newTestSession("user-1", "t", time.Now().Add(-time.Second))
	assert.True(t, expired.IsExpired())

	active := newTestSession("user-1", "t", time.Now().Add(time.Second))
	assert.False(t, active.IsExpired())
}
