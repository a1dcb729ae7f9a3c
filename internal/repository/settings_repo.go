// Package repository 提供数据访问层
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-manager-backend/internal/models"
)

// SettingsRepository 设置仓储（单条记录）
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository 创建设置仓储
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// WithTx 返回绑定事务的仓储
func (r *SettingsRepository) WithTx(tx *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: tx}
}

// Get 获取设置，不存在时返回默认值
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := r.db.WithContext(ctx).Where("id = ?", models.SettingsID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Settings{
			ID:    models.SettingsID,
			Theme: models.ThemeSystem,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save 保存设置（不存在则创建）
func (r *SettingsRepository) Save(ctx context.Context, settings *models.Settings) error {
	settings.ID = models.SettingsID
	return r.db.WithContext(ctx).Save(settings).Error
}

// DeleteAll 清空设置表
func (r *SettingsRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Settings{}).Error
}
