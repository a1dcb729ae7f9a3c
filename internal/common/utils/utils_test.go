// Package utils 通用工具函数单元测试
package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ==================== ValidateEmail 测试 ====================

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"admin@hotel.local", true},
		{"front.desk+night@example.com", true},
		{"no-at-sign", false},
		{"@missing-local.com", false},
		{"missing-domain@", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.email))
		})
	}
}

// ==================== 指针辅助函数测试 ====================

func TestPointerHelpers(t *testing.T) {
	s := StringPtr("hello")
	assert.Equal(t, "hello", *s)

	f := Float64Ptr(150.5)
	assert.Equal(t, 150.5, *f)

	now := time.Now()
	tp := TimePtr(now)
	assert.Equal(t, now, *tp)

	assert.Equal(t, "hello", SafeString(s))
	assert.Equal(t, "", SafeString(nil))
}

// ==================== 切片辅助函数测试 ====================

func TestContains(t *testing.T) {
	statuses := []string{"Reserved", "Checked-in"}
	assert.True(t, Contains(statuses, "Reserved"))
	assert.False(t, Contains(statuses, "Cancelled"))
	assert.False(t, Contains([]string{}, "Reserved"))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"WiFi", "TV", "AC"}, Unique([]string{"WiFi", "TV", "WiFi", "AC", "TV"}))
	assert.Empty(t, Unique([]string{}))
}

func TestMaxMin(t *testing.T) {
	assert.Equal(t, 5, Max(3, 5))
	assert.Equal(t, 3, Min(3, 5))
	assert.Equal(t, 150.5, Max(150.5, 99.9))
}

// ==================== Pagination 测试 ====================

func TestPagination_Normalize(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"正常参数", 2, 20, 2, 20},
		{"页码为零", 0, 10, 1, 10},
		{"负数页码", -1, 10, 1, 10},
		{"每页为零", 1, 0, 1, 10},
		{"超过上限", 1, 500, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pagination{Page: tt.page, PageSize: tt.pageSize}
			p.Normalize()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPageSize, p.PageSize)
		})
	}
}

func TestPagination_Offset(t *testing.T) {
	p := Pagination{Page: 3, PageSize: 20}
	assert.Equal(t, 40, p.GetOffset())
	assert.Equal(t, 20, p.GetLimit())
}
