// Package handler Handler 辅助函数单元测试
package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/hotel-manager-backend/internal/common/errors"
	"github.com/dumeirei/hotel-manager-backend/internal/common/response"
	"github.com/dumeirei/hotel-manager-backend/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTest 创建测试用的 Gin 上下文
func setupTest() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

// parseResponse 解析响应
func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

// ==================== HandleError 测试 ====================

func TestHandleError_NilError(t *testing.T) {
	c, w := setupTest()

	handled := HandleError(c, nil)

	assert.False(t, handled)
	assert.Empty(t, w.Body.String())
}

func TestHandleError_AppError(t *testing.T) {
	c, w := setupTest()

	handled := HandleError(c, errors.ErrBookingConflict)

	assert.True(t, handled)
	resp := parseResponse(t, w)
	assert.Equal(t, errors.ErrBookingConflict.Code, resp.Code)
	assert.Equal(t, errors.ErrBookingConflict.Message, resp.Message)
}

func TestHandleError_PlainError(t *testing.T) {
	c, w := setupTest()

	handled := HandleError(c, assert.AnError)

	assert.True(t, handled)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ==================== MustSucceed 测试 ====================

func TestMustSucceed(t *testing.T) {
	t.Run("成功时返回数据", func(t *testing.T) {
		c, w := setupTest()

		MustSucceed(c, nil, map[string]string{"id": "room-1"})

		resp := parseResponse(t, w)
		assert.Equal(t, 0, resp.Code)
		assert.NotNil(t, resp.Data)
	})

	t.Run("失败时返回错误", func(t *testing.T) {
		c, w := setupTest()

		MustSucceed(c, errors.ErrRoomNotFound, nil)

		resp := parseResponse(t, w)
		assert.Equal(t, errors.ErrRoomNotFound.Code, resp.Code)
	})
}

// ==================== RequireUserID 测试 ====================

func TestRequireUserID(t *testing.T) {
	t.Run("已登录", func(t *testing.T) {
		c, _ := setupTest()
		c.Set(middleware.ContextKeyUserID, "user-1")

		userID, ok := RequireUserID(c)
		assert.True(t, ok)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("未登录返回401", func(t *testing.T) {
		c, w := setupTest()

		_, ok := RequireUserID(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// ==================== ParseID 测试 ====================

func TestParseID(t *testing.T) {
	t.Run("解析成功", func(t *testing.T) {
		c, _ := setupTest()
		c.Params = gin.Params{{Key: "id", Value: "room-uuid-1"}}

		id, ok := ParseID(c, "房间")
		assert.True(t, ok)
		assert.Equal(t, "room-uuid-1", id)
	})

	t.Run("缺少参数返回400", func(t *testing.T) {
		c, w := setupTest()

		_, ok := ParseID(c, "房间")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// ==================== 日期解析测试 ====================

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 15, d.Day())

	_, err = ParseDate("15/03/2026")
	assert.Error(t, err)
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"日期格式", "2026-03-15", true},
		{"日期时间格式", "2026-03-15 14:00:00", true},
		{"ISO格式", "2026-03-15T14:00:00Z", true},
		{"非法格式", "not-a-date", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDateTime(tt.input)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseRequiredQueryDateRange(t *testing.T) {
	t.Run("解析成功", func(t *testing.T) {
		c, _ := setupTest()
		c.Request = httptest.NewRequest(http.MethodGet, "/?check_in=2026-03-01&check_out=2026-03-05", nil)

		checkIn, checkOut, ok := ParseRequiredQueryDateRange(c)
		require.True(t, ok)
		assert.True(t, checkIn.Before(checkOut))
	})

	t.Run("缺少参数返回400", func(t *testing.T) {
		c, w := setupTest()
		c.Request = httptest.NewRequest(http.MethodGet, "/?check_in=2026-03-01", nil)

		_, _, ok := ParseRequiredQueryDateRange(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// ==================== BindPagination 测试 ====================

func TestBindPagination(t *testing.T) {
	t.Run("默认值", func(t *testing.T) {
		c, _ := setupTest()

		p := BindPagination(c)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 10, p.PageSize)
	})

	t.Run("自定义参数", func(t *testing.T) {
		c, _ := setupTest()
		c.Request = httptest.NewRequest(http.MethodGet, "/?page=3&page_size=20", nil)

		p := BindPagination(c)
		assert.Equal(t, 3, p.Page)
		assert.Equal(t, 20, p.PageSize)
	})
}
