package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"foodgram/internal/entity/dto"
)

// Login 邮箱加密码换取 JWT
func (h *HTTPHandler) Login(c *gin.Context) {
	var req dto.TokenLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	token, err := h.users.Login(ctx, req)
	if err != nil {
		respondError(c, err, "failed to log in")
		return
	}
	c.JSON(http.StatusOK, token)
}

// Logout 令牌无状态，客户端丢弃即可
func (h *HTTPHandler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// parseID 解析路径参数中的正整数 id
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		InvalidID(c, name)
		return 0, false
	}
	return uint(id), true
}

// queryInt 读取整数查询参数，缺省或非法时返回 fallback
func queryInt(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
