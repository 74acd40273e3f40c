package sql

import (
	"context"

	"gorm.io/gorm"

	"foodgram/internal/apperror"
	"foodgram/internal/entity/common"
	"foodgram/internal/entity/db"
)

// AddFavorite records a favorite. A second insert for the same pair is a conflict.
func (r *GormRepository) AddFavorite(ctx context.Context, userID, recipeID uint) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	err := r.db.WithContext(ctx).Create(&db.Favorite{UserID: userID, RecipeID: recipeID}).Error
	if isUniqueViolation(err) {
		return apperror.Conflict("recipe is already in favorites")
	}
	return translateError(err, "favorite")
}

// RemoveFavorite deletes a favorite, or returns NotFound when there is none.
func (r *GormRepository) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return r.deletePair(ctx, &db.Favorite{}, "recipe_id", userID, recipeID, "recipe is not in favorites")
}

// AddToCart puts a recipe in the user's shopping cart.
func (r *GormRepository) AddToCart(ctx context.Context, userID, recipeID uint) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	err := r.db.WithContext(ctx).Create(&db.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}).Error
	if isUniqueViolation(err) {
		return apperror.Conflict("recipe is already in the shopping cart")
	}
	return translateError(err, "shopping cart entry")
}

// RemoveFromCart takes a recipe out of the user's shopping cart.
func (r *GormRepository) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return r.deletePair(ctx, &db.ShoppingCartEntry{}, "recipe_id", userID, recipeID, "recipe is not in the shopping cart")
}

// Subscribe makes userID follow authorID. Following yourself is a conflict.
func (r *GormRepository) Subscribe(ctx context.Context, userID, authorID uint) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if userID == authorID {
		return apperror.Conflict("cannot subscribe to yourself")
	}
	err := r.db.WithContext(ctx).Create(&db.Subscription{UserID: userID, AuthorID: authorID}).Error
	if isUniqueViolation(err) {
		return apperror.Conflict("already subscribed to this author")
	}
	return translateError(err, "subscription")
}

// Unsubscribe removes a subscription.
func (r *GormRepository) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return r.deletePair(ctx, &db.Subscription{}, "author_id", userID, authorID, "not subscribed to this author")
}

func (r *GormRepository) deletePair(ctx context.Context, model interface{}, column string, userID, otherID uint, missing string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(column+" = ?", otherID).
		Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound(missing)
	}
	return nil
}

// ListSubscriptions returns the authors userID follows, in subscription order.
func (r *GormRepository) ListSubscriptions(ctx context.Context, userID uint, page common.PageParams) ([]db.User, int64, error) {
	if r == nil || r.db == nil {
		return nil, 0, errNotInitialised
	}
	page = page.Normalize(common.DefaultSubscriptionLimit)

	query := r.db.WithContext(ctx).Model(&db.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []db.User
	err := query.Select("users.*").
		Order("subscriptions.id ASC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}

// FavoritedRecipeIDs returns which of recipeIDs userID has favorited.
func (r *GormRepository) FavoritedRecipeIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return r.pairSet(ctx, &db.Favorite{}, "recipe_id", userID, recipeIDs)
}

// CartRecipeIDs returns which of recipeIDs are in userID's cart.
func (r *GormRepository) CartRecipeIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	return r.pairSet(ctx, &db.ShoppingCartEntry{}, "recipe_id", userID, recipeIDs)
}

// SubscribedAuthorIDs returns which of authorIDs userID follows.
func (r *GormRepository) SubscribedAuthorIDs(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	return r.pairSet(ctx, &db.Subscription{}, "author_id", userID, authorIDs)
}

func (r *GormRepository) pairSet(ctx context.Context, model interface{}, column string, userID uint, ids []uint) (map[uint]bool, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	set := make(map[uint]bool, len(ids))
	if userID == 0 || len(ids) == 0 {
		return set, nil
	}
	var found []uint
	err := r.db.WithContext(ctx).Model(model).
		Where("user_id = ?", userID).
		Where(column+" IN ?", ids).
		Pluck(column, &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}

// ListCartIngredientRows reads every (recipe, ingredient, amount) row of the
// user's cart with one join. Rows are not aggregated here.
func (r *GormRepository) ListCartIngredientRows(ctx context.Context, userID uint) ([]db.CartIngredientRow, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	rows := make([]db.CartIngredientRow, 0)
	err := r.db.WithContext(ctx).
		Table("shopping_cart_entries AS c").
		Select("c.recipe_id AS recipe_id, i.name AS name, i.measurement_unit AS measurement_unit, ri.amount AS amount").
		Joins("JOIN recipe_ingredients AS ri ON ri.recipe_id = c.recipe_id").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Where("c.user_id = ?", userID).
		Order("c.recipe_id ASC").
		Order("ri.position ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
