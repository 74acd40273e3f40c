package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"foodgram/internal/entity/dto"
)

func (h *HTTPHandler) ListRecipes(c *gin.Context) {
	var query dto.RecipeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.recipes.List(ctx, viewer(c), query)
	if err != nil {
		respondError(c, err, "failed to load recipes")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) GetRecipe(c *gin.Context) {
	recipeID, ok := parseID(c, "recipe")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.recipes.Get(ctx, viewer(c), recipeID)
	if err != nil {
		respondError(c, err, "failed to load recipe")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) CreateRecipe(c *gin.Context) {
	var req dto.RecipeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	// 图片上传可能较慢
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	resp, err := h.recipes.Create(ctx, viewer(c), req)
	if err != nil {
		respondError(c, err, "failed to create recipe")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *HTTPHandler) UpdateRecipe(c *gin.Context) {
	recipeID, ok := parseID(c, "recipe")
	if !ok {
		return
	}
	var req dto.RecipeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	resp, err := h.recipes.Update(ctx, viewer(c), recipeID, req)
	if err != nil {
		respondError(c, err, "failed to update recipe")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) DeleteRecipe(c *gin.Context) {
	recipeID, ok := parseID(c, "recipe")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.recipes.Delete(ctx, viewer(c), recipeID); err != nil {
		respondError(c, err, "failed to delete recipe")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) GetShortLink(c *gin.Context) {
	recipeID, ok := parseID(c, "recipe")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.recipes.ShortLink(ctx, recipeID)
	if err != nil {
		respondError(c, err, "failed to build short link")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) AddFavorite(c *gin.Context) {
	recipeID, ok := parseID(c, "recipe")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.recipes.AddFavorite(ctx, viewer(c), recipeID)
	if err != nil {
		respondError(c, err, "failed to add favorite")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *HTTPHandler) RemoveFavorite(c *gin.Context) {
	recipeID, ok := parseID(c, "recipe")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.recipes.RemoveFavorite(ctx, viewer(c), recipeID); err != nil {
		respondError(c, err, "failed to remove favorite")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) AddToCart(c *gin.Context) {
	recipeID, ok := parseID(c, "recipe")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.recipes.AddToCart(ctx, viewer(c), recipeID)
	if err != nil {
		respondError(c, err, "failed to add recipe to shopping cart")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *HTTPHandler) RemoveFromCart(c *gin.Context) {
	recipeID, ok := parseID(c, "recipe")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.recipes.RemoveFromCart(ctx, viewer(c), recipeID); err != nil {
		respondError(c, err, "failed to remove recipe from shopping cart")
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart 以附件形式返回聚合后的购物清单，?format=txt|pdf
func (h *HTTPHandler) DownloadShoppingCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	doc, err := h.recipes.DownloadShoppingCart(ctx, viewer(c), c.Query("format"))
	if err != nil {
		respondError(c, err, "failed to build shopping list")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
