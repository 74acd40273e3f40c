package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"foodgram/internal/apperror"
	"foodgram/internal/entity/db"
	"foodgram/internal/service"
)

const (
	currentUserContextKey = "current-user"
)

// RequestUser 存储请求上下文中的认证用户信息
type RequestUser struct {
	ID       uint
	Email    string
	Username string
	Role     string
}

// IsAdmin 判断用户是否具有管理员权限
func (u *RequestUser) IsAdmin() bool {
	if u == nil {
		return false
	}
	return u.Role == db.UserRoleAdmin
}

// errNoCredentials 请求未携带 Authorization 头
var errNoCredentials = errors.New("no credentials")

// AuthMiddleware JWT 认证中间件，未认证请求返回 401
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.authenticate(c)
		if err != nil {
			h.abortUnauthenticated(c, err)
			return
		}
		c.Set(currentUserContextKey, user)
		c.Next()
	}
}

// OptionalAuth 匿名请求直接放行；携带了无效凭证时仍返回 401
func (h *HTTPHandler) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.authenticate(c)
		if err != nil {
			if errors.Is(err, errNoCredentials) {
				c.Next()
				return
			}
			h.abortUnauthenticated(c, err)
			return
		}
		c.Set(currentUserContextKey, user)
		c.Next()
	}
}

// RequireAdmin 管理员权限守卫中间件
func (h *HTTPHandler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{
				Code:    ErrCodeForbidden,
				Message: "admin privileges required",
			})
			return
		}
		c.Next()
	}
}

// authenticate accepts "Bearer <jwt>" and "Token <jwt>" headers.
func (h *HTTPHandler) authenticate(c *gin.Context) (*RequestUser, error) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return nil, errNoCredentials
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || (!strings.EqualFold(parts[0], "Bearer") && !strings.EqualFold(parts[0], "Token")) {
		return nil, apperror.Unauthorized("invalid authorization header format")
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return nil, apperror.Unauthorized("missing token")
	}

	claims, err := h.authManager.ParseToken(tokenString)
	if err != nil {
		logrus.WithError(err).Debug("failed to parse jwt token")
		return nil, apperror.Wrap(apperror.KindUnauthorized, "token is invalid or expired", err)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("user no longer exists")
		}
		return nil, err
	}

	return &RequestUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

func (h *HTTPHandler) abortUnauthenticated(c *gin.Context, err error) {
	if errors.Is(err, errNoCredentials) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
			Code:    ErrCodeUnauthorized,
			Message: "authentication credentials were not provided",
		})
		return
	}
	if appErr, ok := apperror.As(err); ok && appErr.Kind == apperror.KindUnauthorized {
		c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
			Code:    ErrCodeSessionExpired,
			Message: appErr.Message,
		})
		return
	}
	logrus.WithError(err).Error("failed to authenticate request")
	c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{
		Code:    ErrCodeInternalError,
		Message: "failed to verify user",
	})
}

// CurrentUser 从上下文获取当前认证用户
func CurrentUser(c *gin.Context) *RequestUser {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*RequestUser)
	if !ok {
		return nil
	}
	return user
}

// viewer 返回当前请求者，匿名请求的 ID 为 0
func viewer(c *gin.Context) service.Viewer {
	user := CurrentUser(c)
	if user == nil {
		return service.Viewer{}
	}
	return service.Viewer{ID: user.ID, IsAdmin: user.IsAdmin()}
}
