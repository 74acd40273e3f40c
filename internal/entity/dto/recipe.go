package dto

import "foodgram/internal/entity/common"

// RecipeIngredientInput references an ingredient with an amount on write.
type RecipeIngredientInput struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"gte=1"`
}

// RecipeCreateRequest is the create shape of a recipe.
type RecipeCreateRequest struct {
	Ingredients []RecipeIngredientInput `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []uint                  `json:"tags" validate:"required,min=1,dive,gt=0"`
	Image       string                  `json:"image"`
	Name        string                  `json:"name" validate:"required,max=200"`
	Text        string                  `json:"text" validate:"required"`
	CookingTime int                     `json:"cooking_time" validate:"gte=1"`
}

// RecipeUpdateRequest is the partial update shape. Nil fields are left unchanged.
type RecipeUpdateRequest struct {
	Ingredients *[]RecipeIngredientInput `json:"ingredients"`
	Tags        *[]uint                  `json:"tags"`
	Image       *string                  `json:"image"`
	Name        *string                  `json:"name"`
	Text        *string                  `json:"text"`
	CookingTime *int                     `json:"cooking_time"`
}

// RecipeIngredient is the read shape of one recipe ingredient line.
type RecipeIngredient struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	MeasurementUnit *string `json:"measurement_unit"`
	Amount          int     `json:"amount"`
}

// RecipeResponse is the read shape of a recipe.
type RecipeResponse struct {
	ID               uint               `json:"id"`
	Tags             []Tag              `json:"tags"`
	Author           UserResponse       `json:"author"`
	Ingredients      []RecipeIngredient `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
}

// RecipeShort is the compact recipe shape used by favorites, cart and subscriptions.
type RecipeShort struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// RecipeListResponse is a page of recipes.
type RecipeListResponse struct {
	Count   int64            `json:"count"`
	Results []RecipeResponse `json:"results"`
}

// RecipeQuery holds list filters. IsInShoppingCart distinguishes 0 (exclude) from absent.
type RecipeQuery struct {
	common.PageParams
	Author           uint     `form:"author"`
	Tags             []string `form:"tags"`
	IsFavorited      int      `form:"is_favorited"`
	IsInShoppingCart *int     `form:"is_in_shopping_cart"`
}

// ShortLinkResponse carries the shareable recipe link.
type ShortLinkResponse struct {
	ShortLink string `json:"short-link"`
}
