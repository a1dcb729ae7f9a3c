// Package logger 日志模块单元测试
package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/dumeirei/hotel-manager-backend/internal/common/config"
)

// ==================== Init 函数测试 ====================

func TestInit_ConsoleFormat(t *testing.T) {
	cfg := &config.LoggerConfig{
		Level:  "debug",
		Format: "console",
		Output: "stdout",
		Caller: true,
	}

	err := Init(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, log)
	assert.NotNil(t, sugar)
}

func TestInit_JSONFormat(t *testing.T) {
	cfg := &config.LoggerConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
		Caller: false,
	}

	err := Init(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, log)
}

func TestInit_FileOutput(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "app.log")

	cfg := &config.LoggerConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logPath,
		MaxSize:  1,
	}

	err := Init(cfg)
	require.NoError(t, err)

	Info("file output test")
	require.NoError(t, Sync())

	_, err = os.Stat(logPath)
	assert.NoError(t, err)
}

// ==================== getLogLevel 测试 ====================

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, getLogLevel(tt.level))
		})
	}
}

// ==================== 日志函数测试 ====================

func TestLoggingFunctions(t *testing.T) {
	cfg := &config.LoggerConfig{Level: "debug", Format: "console", Output: "stdout"}
	require.NoError(t, Init(cfg))

	// 不会panic即为成功
	Debug("debug message", String("key", "value"))
	Info("info message", Int("count", 3))
	Warn("warn message")
	Error("error message")
	Debugf("formatted %s", "debug")
	Infof("formatted %d", 42)
}

func TestGetLogger_LazyInit(t *testing.T) {
	assert.NotNil(t, GetLogger())
	assert.NotNil(t, GetSugar())
}

func TestNamedAndWith(t *testing.T) {
	named := Named("booking")
	assert.NotNil(t, named)

	withFields := With(Module("room"), Action("create"))
	assert.NotNil(t, withFields)
}

// ==================== 字段构造函数测试 ====================

func TestFieldHelpers(t *testing.T) {
	assert.Equal(t, "request_id", RequestID("req-1").Key)
	assert.Equal(t, "user_id", UserID("user-1").Key)
	assert.Equal(t, "room_id", RoomID("room-1").Key)
	assert.Equal(t, "booking_id", BookingID("booking-1").Key)
	assert.Equal(t, "module", Module("booking").Key)
	assert.Equal(t, "action", Action("check_in").Key)
	assert.Equal(t, "latency", Latency(10*time.Millisecond).Key)
}
