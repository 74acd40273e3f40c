package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/apperror"
	"foodgram/internal/entity/common"
	"foodgram/internal/entity/converter"
	"foodgram/internal/entity/db"
	"foodgram/internal/entity/dto"
	"foodgram/internal/export"
	"foodgram/internal/metrics"
	"foodgram/internal/model"
	"foodgram/internal/shopping"
	"foodgram/internal/shortlink"
	"foodgram/internal/storage"
	"foodgram/internal/validation"
)

// Viewer identifies the requesting user. ID is 0 for anonymous requests.
type Viewer struct {
	ID      uint
	IsAdmin bool
}

// RecipeService 食谱、收藏、购物车与短链接相关的业务逻辑
type RecipeService struct {
	repo      model.Repository
	media     *MediaService
	codec     *shortlink.Codec
	validator *validation.Validator
	shopping  *shopping.Service
	linkBase  string
}

// NewRecipeService 创建食谱服务实例；linkBase 为短链接前缀
func NewRecipeService(repo model.Repository, media *MediaService, codec *shortlink.Codec, v *validation.Validator, linkBase string) *RecipeService {
	return &RecipeService{
		repo:      repo,
		media:     media,
		codec:     codec,
		validator: v,
		shopping:  shopping.NewService(repo),
		linkBase:  linkBase,
	}
}

// Create validates the request, stores the image and inserts the recipe.
func (s *RecipeService) Create(ctx context.Context, viewer Viewer, req dto.RecipeCreateRequest) (*dto.RecipeResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Image) == "" {
		return nil, apperror.Validation("image", "is required")
	}
	lines, err := s.checkIngredients(ctx, req.Ingredients)
	if err != nil {
		return nil, err
	}
	if err := s.checkTags(ctx, req.Tags); err != nil {
		return nil, err
	}

	key, err := s.media.SaveImage(ctx, storage.CategoryRecipes, "image", req.Image)
	if err != nil {
		return nil, err
	}

	recipe := &db.Recipe{
		AuthorID:    viewer.ID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       key,
		Ingredients: lines,
	}
	if err := s.repo.CreateRecipe(ctx, recipe, req.Tags); err != nil {
		s.media.Remove(ctx, key)
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Validation("name", "a recipe with this name already exists")
		}
		return nil, err
	}
	return s.Get(ctx, viewer, recipe.ID)
}

// Update applies a partial update. Only the author may change a recipe.
func (s *RecipeService) Update(ctx context.Context, viewer Viewer, id uint, req dto.RecipeUpdateRequest) (*dto.RecipeResponse, error) {
	existing, err := s.repo.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != viewer.ID {
		return nil, apperror.Forbidden("only the author may change this recipe")
	}

	var updates db.RecipeUpdates
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len([]rune(name)) > 200 {
			return nil, apperror.Validation("name", "must be between 1 and 200 characters")
		}
		updates.Name = &name
	}
	if req.Text != nil {
		if strings.TrimSpace(*req.Text) == "" {
			return nil, apperror.Validation("text", "is required")
		}
		updates.Text = req.Text
	}
	if req.CookingTime != nil {
		if *req.CookingTime < 1 {
			return nil, apperror.Validation("cooking_time", "must be greater than or equal to 1")
		}
		updates.CookingTime = req.CookingTime
	}
	if req.Ingredients != nil {
		if err := s.validator.Validate(ingredientList{Ingredients: *req.Ingredients}); err != nil {
			return nil, err
		}
		lines, err := s.checkIngredients(ctx, *req.Ingredients)
		if err != nil {
			return nil, err
		}
		updates.Ingredients = lines
	}
	if req.Tags != nil {
		if err := s.validator.Validate(tagList{Tags: *req.Tags}); err != nil {
			return nil, err
		}
		if err := s.checkTags(ctx, *req.Tags); err != nil {
			return nil, err
		}
		updates.TagIDs = *req.Tags
	}

	var newImage string
	if req.Image != nil {
		newImage, err = s.media.SaveImage(ctx, storage.CategoryRecipes, "image", *req.Image)
		if err != nil {
			return nil, err
		}
		updates.Image = &newImage
	}

	if err := s.repo.UpdateRecipe(ctx, id, updates); err != nil {
		s.media.Remove(ctx, newImage)
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Validation("name", "a recipe with this name already exists")
		}
		return nil, err
	}
	if newImage != "" && existing.Image != "" {
		s.media.Remove(ctx, existing.Image)
	}
	return s.Get(ctx, viewer, id)
}

// ingredientList and tagList reuse the create-shape rules for partial updates.
type ingredientList struct {
	Ingredients []dto.RecipeIngredientInput `json:"ingredients" validate:"required,min=1,dive"`
}

type tagList struct {
	Tags []uint `json:"tags" validate:"required,min=1,dive,gt=0"`
}

// Delete removes the recipe with its association rows. Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, viewer Viewer, id uint) error {
	existing, err := s.repo.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	if existing.AuthorID != viewer.ID {
		return apperror.Forbidden("only the author may delete this recipe")
	}
	if err := s.repo.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	s.media.Remove(ctx, existing.Image)
	return nil
}

// Get returns the read shape of a recipe for viewer.
func (s *RecipeService) Get(ctx context.Context, viewer Viewer, id uint) (*dto.RecipeResponse, error) {
	recipe, err := s.repo.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	responses, err := s.toResponses(ctx, viewer, []db.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// List returns a filtered page of recipes. The favorite and cart filters only
// apply to authenticated viewers.
func (s *RecipeService) List(ctx context.Context, viewer Viewer, q dto.RecipeQuery) (*dto.RecipeListResponse, error) {
	filter := db.RecipeFilter{
		AuthorID: q.Author,
		TagSlugs: nonEmpty(q.Tags),
		Page:     q.PageParams.Normalize(common.DefaultPageLimit),
	}
	if viewer.ID != 0 {
		if q.IsFavorited == 1 {
			filter.FavoritedBy = viewer.ID
		}
		if q.IsInShoppingCart != nil {
			switch *q.IsInShoppingCart {
			case 1:
				filter.InCartOf = viewer.ID
			case 0:
				filter.NotInCartOf = viewer.ID
			}
		}
	}

	recipes, total, err := s.repo.ListRecipes(ctx, filter)
	if err != nil {
		return nil, err
	}
	results, err := s.toResponses(ctx, viewer, recipes)
	if err != nil {
		return nil, err
	}
	return &dto.RecipeListResponse{Count: total, Results: results}, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// toResponses converts recipes with per-viewer flags loaded in three batched queries.
func (s *RecipeService) toResponses(ctx context.Context, viewer Viewer, recipes []db.Recipe) ([]dto.RecipeResponse, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs[i] = r.AuthorID
	}
	favorited, err := s.repo.FavoritedRecipeIDs(ctx, viewer.ID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.repo.CartRecipeIDs(ctx, viewer.ID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.repo.SubscribedAuthorIDs(ctx, viewer.ID, authorIDs)
	if err != nil {
		return nil, err
	}

	urls := s.media.URLFunc()
	out := make([]dto.RecipeResponse, len(recipes))
	for i := range recipes {
		out[i] = converter.RecipeToResponse(&recipes[i], converter.RecipeFlags{
			Favorited:        favorited[recipes[i].ID],
			InShoppingCart:   inCart[recipes[i].ID],
			AuthorSubscribed: subscribed[recipes[i].AuthorID],
		}, urls)
	}
	return out, nil
}

// AddFavorite favorites a recipe. A repeated favorite is a conflict.
func (s *RecipeService) AddFavorite(ctx context.Context, viewer Viewer, recipeID uint) (*dto.RecipeShort, error) {
	recipe, err := s.repo.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddFavorite(ctx, viewer.ID, recipeID); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			metrics.RelationConflicts.WithLabelValues("favorite").Inc()
		}
		return nil, err
	}
	short := converter.RecipeToShort(recipe, s.media.URLFunc())
	return &short, nil
}

// RemoveFavorite removes a favorite, NotFound when the recipe or entry is missing.
func (s *RecipeService) RemoveFavorite(ctx context.Context, viewer Viewer, recipeID uint) error {
	if err := s.ensureRecipe(ctx, recipeID); err != nil {
		return err
	}
	return s.repo.RemoveFavorite(ctx, viewer.ID, recipeID)
}

// AddToCart puts a recipe in the viewer's cart. A repeated add is a conflict.
func (s *RecipeService) AddToCart(ctx context.Context, viewer Viewer, recipeID uint) (*dto.RecipeShort, error) {
	recipe, err := s.repo.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddToCart(ctx, viewer.ID, recipeID); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			metrics.RelationConflicts.WithLabelValues("shopping_cart").Inc()
		}
		return nil, err
	}
	short := converter.RecipeToShort(recipe, s.media.URLFunc())
	return &short, nil
}

// RemoveFromCart takes a recipe out of the viewer's cart.
func (s *RecipeService) RemoveFromCart(ctx context.Context, viewer Viewer, recipeID uint) error {
	if err := s.ensureRecipe(ctx, recipeID); err != nil {
		return err
	}
	return s.repo.RemoveFromCart(ctx, viewer.ID, recipeID)
}

func (s *RecipeService) ensureRecipe(ctx context.Context, id uint) error {
	exists, err := s.repo.RecipeExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NotFound(fmt.Sprintf("recipe %d not found", id))
	}
	return nil
}

// ShortLink returns the shareable link of an existing recipe.
func (s *RecipeService) ShortLink(ctx context.Context, recipeID uint) (*dto.ShortLinkResponse, error) {
	if err := s.ensureRecipe(ctx, recipeID); err != nil {
		return nil, err
	}
	link, err := s.codec.Link(s.linkBase, int64(recipeID))
	if err != nil {
		return nil, err
	}
	return &dto.ShortLinkResponse{ShortLink: link}, nil
}

// ResolveShortLink decodes token and checks that the recipe still exists.
// The outcome is one of the metrics short-link outcomes.
func (s *RecipeService) ResolveShortLink(ctx context.Context, token string) (uint, string, error) {
	id, ok := s.codec.Decode(token)
	if !ok || id <= 0 || uint64(id) > uint64(^uint(0)) {
		return 0, metrics.OutcomeInvalidToken, apperror.NotFound("invalid short link")
	}
	recipeID := uint(id)
	exists, err := s.repo.RecipeExists(ctx, recipeID)
	if err != nil {
		return 0, "", err
	}
	if !exists {
		return 0, metrics.OutcomeUnknownRecipe, apperror.NotFound("recipe not found")
	}
	return recipeID, metrics.OutcomeRedirect, nil
}

// DownloadShoppingCart aggregates the viewer's cart and renders it in format.
func (s *RecipeService) DownloadShoppingCart(ctx context.Context, viewer Viewer, format string) (*export.Document, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	items, err := s.shopping.Build(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	doc, err := export.Render(items, f)
	if err != nil {
		return nil, err
	}
	metrics.ShoppingListExports.WithLabelValues(string(f)).Inc()
	metrics.ShoppingListItems.Observe(float64(len(items)))
	return doc, nil
}

// checkIngredients rejects duplicate or unknown ingredient ids and returns
// association rows in request order.
func (s *RecipeService) checkIngredients(ctx context.Context, items []dto.RecipeIngredientInput) ([]db.RecipeIngredient, error) {
	ids := make([]uint, 0, len(items))
	seen := make(map[uint]struct{}, len(items))
	for i, item := range items {
		if _, dup := seen[item.ID]; dup {
			return nil, apperror.Validation(fmt.Sprintf("ingredients[%d].id", i), "ingredients must not repeat")
		}
		seen[item.ID] = struct{}{}
		ids = append(ids, item.ID)
	}
	found, err := s.repo.FindIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		known := make(map[uint]struct{}, len(found))
		for _, f := range found {
			known[f.ID] = struct{}{}
		}
		for i, id := range ids {
			if _, ok := known[id]; !ok {
				return nil, apperror.Validation(fmt.Sprintf("ingredients[%d].id", i), fmt.Sprintf("ingredient %d does not exist", id))
			}
		}
	}

	lines := make([]db.RecipeIngredient, len(items))
	for i, item := range items {
		lines[i] = db.RecipeIngredient{IngredientID: item.ID, Amount: item.Amount}
	}
	return lines, nil
}

func (s *RecipeService) checkTags(ctx context.Context, ids []uint) error {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return apperror.Validation("tags", "tags must not repeat")
		}
		seen[id] = struct{}{}
	}
	found, err := s.repo.FindTagsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return apperror.Validation("tags", "one or more tags do not exist")
	}
	return nil
}
