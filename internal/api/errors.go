package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"foodgram/internal/apperror"
)

// 错误码定义
const (
	// 通用错误码
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
	ErrCodeTooManyRequests    = "ERR_TOO_MANY_REQUESTS"

	// 认证错误码
	ErrCodeSessionExpired = "ERR_SESSION_EXPIRED"
	ErrCodeUserNotFound   = "ERR_USER_NOT_FOUND"

	// 业务逻辑错误码
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeConflict   = "ERR_CONFLICT"
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// 常用错误响应快捷函数

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401 未授权
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden 403 禁止访问
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusNotFound, code, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// ServiceUnavailable 503 服务不可用
func ServiceUnavailable(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload")
}

// InvalidID 路径参数中的 id 无效
func InvalidID(c *gin.Context, name string) {
	ErrorResponseWithDetails(c, http.StatusNotFound, ErrCodeNotFound, "invalid "+name+" id", gin.H{"field": "id"})
}

// respondError 把业务错误映射为 HTTP 响应。未分类的错误记录日志并返回 500。
func respondError(c *gin.Context, err error, logMessage string) {
	appErr, ok := apperror.As(err)
	if !ok {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error(logMessage)
		InternalError(c, logMessage)
		return
	}

	switch appErr.Kind {
	case apperror.KindNotFound:
		NotFound(c, ErrCodeNotFound, appErr.Message)
	case apperror.KindConflict:
		BadRequest(c, ErrCodeConflict, appErr.Message)
	case apperror.KindValidation:
		var details any
		if appErr.Field != "" {
			details = gin.H{"field": appErr.Field}
		}
		ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeValidation, appErr.Message, details)
	case apperror.KindForbidden:
		Forbidden(c, appErr.Message)
	case apperror.KindUnauthorized:
		Unauthorized(c, appErr.Message)
	default:
		logrus.WithError(err).Error(logMessage)
		InternalError(c, logMessage)
	}
}
