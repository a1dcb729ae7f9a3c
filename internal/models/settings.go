package models

import (
	"time"
)

// SettingsID 设置表单条记录的固定主键
const SettingsID = "app-settings"

// Settings 应用设置（单条记录）
type Settings struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Theme     string    `gorm:"type:varchar(20);not null;default:'system'" json:"theme"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (Settings) TableName() string {
	return "settings"
}

// Theme 主题
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// IsValidTheme 判断主题取值是否合法
func IsValidTheme(t string) bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}
