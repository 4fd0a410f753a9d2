package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrSummaryNotConfigured = errors.New("用户未开启每日汇总")
	ErrNothingToReport      = errors.New("窗口内没有新动态")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrUserNotFound:         NotFound,
	ErrNotificationNotFound: NotFound,
	ErrSummaryNotConfigured: BadRequest,
	ErrNothingToReport:      NotFound,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}
