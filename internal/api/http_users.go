package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"foodgram/internal/entity/common"
	"foodgram/internal/entity/dto"
)

// defaultRecipesLimit 订阅列表中每位作者默认展示的食谱数量，0 表示不限
const defaultRecipesLimit = 0

func (h *HTTPHandler) CreateUser(c *gin.Context) {
	var req dto.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	created, err := h.users.Register(ctx, req)
	if err != nil {
		respondError(c, err, "failed to register user")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *HTTPHandler) ListUsers(c *gin.Context) {
	var page common.PageParams
	if err := c.ShouldBindQuery(&page); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.users.List(ctx, viewer(c).ID, page)
	if err != nil {
		respondError(c, err, "failed to load users")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) GetUser(c *gin.Context) {
	userID, ok := parseID(c, "user")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.users.Get(ctx, viewer(c).ID, userID)
	if err != nil {
		respondError(c, err, "failed to load user")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me 当前登录用户
func (h *HTTPHandler) Me(c *gin.Context) {
	me := viewer(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.users.Get(ctx, me.ID, me.ID)
	if err != nil {
		respondError(c, err, "failed to load user")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) SetPassword(c *gin.Context) {
	var req dto.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.users.SetPassword(ctx, viewer(c).ID, req); err != nil {
		respondError(c, err, "failed to change password")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) SetAvatar(c *gin.Context) {
	var req dto.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	resp, err := h.users.SetAvatar(ctx, viewer(c).ID, req)
	if err != nil {
		respondError(c, err, "failed to store avatar")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) DeleteAvatar(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.users.DeleteAvatar(ctx, viewer(c).ID); err != nil {
		respondError(c, err, "failed to delete avatar")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) ListSubscriptions(c *gin.Context) {
	var page common.PageParams
	if err := c.ShouldBindQuery(&page); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	page = page.Normalize(common.DefaultSubscriptionLimit)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.users.ListSubscriptions(ctx, viewer(c).ID, page, queryInt(c, "recipes_limit", defaultRecipesLimit))
	if err != nil {
		respondError(c, err, "failed to load subscriptions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) Subscribe(c *gin.Context) {
	authorID, ok := parseID(c, "user")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.users.Subscribe(ctx, viewer(c).ID, authorID, queryInt(c, "recipes_limit", defaultRecipesLimit))
	if err != nil {
		respondError(c, err, "failed to subscribe")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *HTTPHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := parseID(c, "user")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.users.Unsubscribe(ctx, viewer(c).ID, authorID); err != nil {
		respondError(c, err, "failed to unsubscribe")
		return
	}
	c.Status(http.StatusNoContent)
}
