// Package handler 提供 API Handler 的通用辅助函数
// 用于减少 Handler 层的代码重复，统一错误处理、认证检查、参数解析等操作
package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-manager-backend/internal/common/errors"
	"github.com/dumeirei/hotel-manager-backend/internal/common/response"
	"github.com/dumeirei/hotel-manager-backend/internal/common/utils"
	"github.com/dumeirei/hotel-manager-backend/internal/middleware"
)

// HandleError 处理错误并发送适当的响应
// 如果 err 为 nil，返回 false（表示无错误需要处理）
// 如果 err 不为 nil，发送错误响应并返回 true（表示已处理错误，调用方应该 return）
//
// 使用示例:
//
//	result, err := service.DoSomething()
//	if HandleError(c, err) {
//	    return
//	}
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if appErr, ok := err.(*errors.AppError); ok {
		response.Error(c, appErr.Code, appErr.Message)
		return true
	}
	response.InternalError(c, err.Error())
	return true
}

// MustSucceed 便捷封装：如果有错误则返回错误响应，否则返回成功响应
//
// 使用示例:
//
//	result, err := service.GetData()
//	MustSucceed(c, err, result)
//	return  // 注意：调用 MustSucceed 后必须 return
func MustSucceed(c *gin.Context, err error, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.Success(c, data)
}

// MustSucceedList 便捷封装：列表响应版本
func MustSucceedList(c *gin.Context, err error, list interface{}, total int64) {
	if HandleError(c, err) {
		return
	}
	response.SuccessList(c, list, total)
}

// MustSucceedPage 便捷封装：分页响应版本
func MustSucceedPage(c *gin.Context, err error, list interface{}, total int64, page, pageSize int) {
	if HandleError(c, err) {
		return
	}
	response.SuccessPage(c, list, total, page, pageSize)
}

// RequireUserID 获取当前用户ID，如果未登录则返回401响应
// 返回 (userID, true) 表示已登录
// 返回 ("", false) 表示未登录（已发送响应，调用方应该 return）
func RequireUserID(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "请先登录")
		return "", false
	}
	return userID, true
}

// ParseID 解析路径参数 "id"
// 返回 (id, true) 表示解析成功
// 返回 ("", false) 表示参数为空（已发送400响应，调用方应该 return）
func ParseID(c *gin.Context, resourceName string) (string, bool) {
	return ParseParamID(c, "id", resourceName)
}

// ParseParamID 解析指定路径参数
// paramName: 路径参数名称（如 "id", "room_id"）
// resourceName: 资源名称，用于错误消息（如 "房间", "预订"）
func ParseParamID(c *gin.Context, paramName, resourceName string) (string, bool) {
	id := c.Param(paramName)
	if id == "" {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return "", false
	}
	return id, true
}

// 时间格式常量
const (
	DateFormat        = "2006-01-02"
	DateTimeFormat    = "2006-01-02 15:04:05"
	DateTimeFormatISO = "2006-01-02T15:04:05Z07:00"
)

// 支持的日期时间格式列表
var dateTimeFormats = []string{
	DateTimeFormatISO,
	DateTimeFormat,
	DateFormat,
}

// ParseDate 解析日期字符串 (YYYY-MM-DD)
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// ParseDateTime 解析日期时间字符串，支持多种格式
func ParseDateTime(s string) (time.Time, error) {
	for _, format := range dateTimeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.ErrInvalidParams.WithMessage("时间格式错误")
}

// ParseQueryDate 从查询参数解析日期
// 返回 (nil, true) 如果参数为空
// 返回 (nil, false) 如果解析失败（已发送400响应）
// 返回 (*time, true) 如果解析成功
func ParseQueryDate(c *gin.Context, paramName, errorMsg string) (*time.Time, bool) {
	dateStr := c.Query(paramName)
	if dateStr == "" {
		return nil, true
	}
	t, err := ParseDateTime(dateStr)
	if err != nil {
		response.BadRequest(c, errorMsg)
		return nil, false
	}
	return &t, true
}

// ParseRequiredQueryDateRange 从查询参数解析必填的日期范围（check_in, check_out）
// 返回 (zero, zero, false) 如果任一参数为空或解析失败（已发送400响应）
func ParseRequiredQueryDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	checkInStr := c.Query("check_in")
	checkOutStr := c.Query("check_out")

	if checkInStr == "" || checkOutStr == "" {
		response.BadRequest(c, "请指定入住和退房日期")
		return time.Time{}, time.Time{}, false
	}

	checkIn, err := ParseDateTime(checkInStr)
	if err != nil {
		response.BadRequest(c, "无效的入住日期格式")
		return time.Time{}, time.Time{}, false
	}

	checkOut, err := ParseDateTime(checkOutStr)
	if err != nil {
		response.BadRequest(c, "无效的退房日期格式")
		return time.Time{}, time.Time{}, false
	}

	return checkIn, checkOut, true
}

// BindPagination 从查询参数绑定并规范化分页参数
// 默认 page=1, pageSize=10, 最大 pageSize=100
func BindPagination(c *gin.Context) utils.Pagination {
	var p utils.Pagination
	p.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	p.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	p.Normalize()
	return p
}

// RequireUserAndParseID 组合：检查用户登录 + 解析ID参数
func RequireUserAndParseID(c *gin.Context, resourceName string) (userID, resourceID string, ok bool) {
	userID, ok = RequireUserID(c)
	if !ok {
		return "", "", false
	}
	resourceID, ok = ParseID(c, resourceName)
	if !ok {
		return "", "", false
	}
	return userID, resourceID, true
}
