// Package config 配置管理单元测试
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== Load 测试 ====================

func TestLoad_WithDefaultValues(t *testing.T) {
	// 不指定配置文件路径，使用默认搜索路径
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// 验证默认值
	assert.Equal(t, "hotel-manager-backend", cfg.Server.Name)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "data/hotel.db", cfg.Database.Path)
	assert.Equal(t, 5000, cfg.Database.BusyTimeout)
	assert.Equal(t, 24, cfg.Session.DefaultExpireHours)
	assert.Equal(t, 720, cfg.Session.RememberExpireHours)
	assert.Equal(t, "admin@hotel.local", cfg.Seed.AdminEmail)
}

// ==================== Get 测试 ====================

func TestGet_ReturnsSameInstance(t *testing.T) {
	cfg1 := Get()
	cfg2 := Get()

	require.NotNil(t, cfg1)
	assert.Same(t, cfg1, cfg2)
}

// ==================== DatabaseConfig 测试 ====================

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "文件路径附带连接参数",
			cfg:  DatabaseConfig{Path: "data/hotel.db", BusyTimeout: 5000},
			want: "data/hotel.db?_busy_timeout=5000&_foreign_keys=on",
		},
		{
			name: "内存数据库不附带参数",
			cfg:  DatabaseConfig{Path: ":memory:"},
			want: ":memory:",
		},
		{
			name: "空路径使用默认文件",
			cfg:  DatabaseConfig{BusyTimeout: 3000},
			want: "data/hotel.db?_busy_timeout=3000&_foreign_keys=on",
		},
		{
			name: "非法超时使用默认值",
			cfg:  DatabaseConfig{Path: "test.db", BusyTimeout: 0},
			want: "test.db?_busy_timeout=5000&_foreign_keys=on",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}

// ==================== 时长换算测试 ====================

func TestJWTConfig_AccessTokenDuration(t *testing.T) {
	cfg := JWTConfig{AccessTokenExpire: 24}
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenDuration())
}

func TestSessionConfig_Durations(t *testing.T) {
	cfg := SessionConfig{DefaultExpireHours: 24, RememberExpireHours: 720}
	assert.Equal(t, 24*time.Hour, cfg.DefaultDuration())
	assert.Equal(t, 720*time.Hour, cfg.RememberDuration())
}

// ==================== 模式判断测试 ====================

func TestConfig_ModeChecks(t *testing.T) {
	debugCfg := &Config{Server: ServerConfig{Mode: "debug"}}
	assert.True(t, debugCfg.IsDebug())
	assert.False(t, debugCfg.IsRelease())

	releaseCfg := &Config{Server: ServerConfig{Mode: "release"}}
	assert.False(t, releaseCfg.IsDebug())
	assert.True(t, releaseCfg.IsRelease())
}
