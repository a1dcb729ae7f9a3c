// Package errors 定义业务错误码和错误处理
package errors

import (
	"fmt"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码匹配，WithMessage/WithError 派生的错误仍能匹配原始错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithMessagef 格式化修改错误消息
func (e *AppError) WithMessagef(format string, args ...interface{}) *AppError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown         = New(1000, "未知错误")
	ErrInvalidParams   = New(1001, "参数错误")
	ErrNotFound        = New(1002, "资源不存在")
	ErrAlreadyExists   = New(1003, "资源已存在")
	ErrDatabaseError   = New(1004, "数据库错误")
	ErrInternalError   = New(1005, "内部错误")
	ErrOperationFailed = New(1006, "操作失败")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized       = New(2000, "未登录")
	ErrTokenExpired       = New(2001, "登录已过期")
	ErrTokenInvalid       = New(2002, "无效的令牌")
	ErrPermissionDenied   = New(2003, "权限不足")
	ErrInvalidCredentials = New(2004, "邮箱或密码错误")
	ErrSessionExpired     = New(2005, "会话已过期")
)

// 用户错误码 (3000-3999)
var (
	ErrUserNotFound     = New(3000, "用户不存在")
	ErrEmailExists      = New(3001, "该邮箱已被注册")
	ErrPasswordTooWeak  = New(3002, "密码强度不足")
	ErrCannotDeleteSelf = New(3003, "不能删除当前登录用户")
)

// 房间错误码 (4000-4999)
var (
	ErrRoomNotFound          = New(4000, "房间不存在")
	ErrRoomNumberExists      = New(4001, "房间号已存在")
	ErrRoomHasActiveBookings = New(4002, "房间存在未完成的预订，无法删除")
)

// 预订错误码 (5000-5999)
var (
	ErrBookingNotFound   = New(5000, "预订不存在")
	ErrBookingConflict   = New(5001, "所选日期房间已被预订")
	ErrInvalidTransition = New(5002, "预订状态不允许该操作")
	ErrInvalidDateRange  = New(5003, "退房日期必须晚于入住日期")
	ErrBookingActive     = New(5004, "预订尚未结束，无法删除")
)

// 系统错误码 (6000-6999)
var (
	ErrInvalidBackupFormat = New(6000, "备份数据格式无效")
	ErrImportFailed        = New(6001, "数据导入失败")
	ErrExportFailed        = New(6002, "数据导出失败")
	ErrSettingsNotFound    = New(6003, "设置不存在")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
