package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"foodgram/internal/entity/converter"
	"foodgram/internal/entity/db"
	"foodgram/internal/entity/dto"
)

func (h *HTTPHandler) ListTags(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tags, err := h.repo.ListTags(ctx)
	if err != nil {
		respondError(c, err, "failed to load tags")
		return
	}
	c.JSON(http.StatusOK, converter.TagsToDTO(tags))
}

func (h *HTTPHandler) GetTag(c *gin.Context) {
	tagID, ok := parseID(c, "tag")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tag, err := h.repo.GetTag(ctx, tagID)
	if err != nil {
		respondError(c, err, "failed to load tag")
		return
	}
	c.JSON(http.StatusOK, converter.TagToDTO(*tag))
}

// CreateTag 管理员创建标签
func (h *HTTPHandler) CreateTag(c *gin.Context) {
	var req dto.TagCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if err := h.validator.Validate(req); err != nil {
		respondError(c, err, "invalid tag payload")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tag := &db.Tag{Name: req.Name, Slug: req.Slug}
	if err := h.repo.CreateTag(ctx, tag); err != nil {
		respondError(c, err, "failed to create tag")
		return
	}
	c.JSON(http.StatusCreated, converter.TagToDTO(*tag))
}

// ListIngredients 支持 ?name= 前缀过滤
func (h *HTTPHandler) ListIngredients(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, err := h.repo.ListIngredients(ctx, strings.TrimSpace(c.Query("name")))
	if err != nil {
		respondError(c, err, "failed to load ingredients")
		return
	}
	c.JSON(http.StatusOK, converter.IngredientsToDTO(items))
}

func (h *HTTPHandler) GetIngredient(c *gin.Context) {
	ingredientID, ok := parseID(c, "ingredient")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := h.repo.GetIngredient(ctx, ingredientID)
	if err != nil {
		respondError(c, err, "failed to load ingredient")
		return
	}
	c.JSON(http.StatusOK, converter.IngredientToDTO(*item))
}
