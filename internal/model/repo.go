package model

import (
	"context"

	"foodgram/internal/entity/common"
	"foodgram/internal/entity/db"
)

// Repository 定义数据库操作接口。
// 实现需把未找到映射为 apperror.ErrNotFound，唯一约束冲突映射为 apperror.ErrConflict。
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *db.User) error
	UpdateUser(ctx context.Context, id uint, updates db.UserUpdates) error
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	GetUserByID(ctx context.Context, id uint) (*db.User, error)
	ListUsers(ctx context.Context, page common.PageParams) ([]db.User, int64, error)
	CountUsers(ctx context.Context) (int64, error)

	// 标签
	ListTags(ctx context.Context) ([]db.Tag, error)
	GetTag(ctx context.Context, id uint) (*db.Tag, error)
	CreateTag(ctx context.Context, tag *db.Tag) error
	FindTagsByIDs(ctx context.Context, ids []uint) ([]db.Tag, error)

	// 食材
	ListIngredients(ctx context.Context, namePrefix string) ([]db.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*db.Ingredient, error)
	FindIngredientsByIDs(ctx context.Context, ids []uint) ([]db.Ingredient, error)
	UpsertIngredients(ctx context.Context, items []db.Ingredient) (int, error)

	// 食谱
	CreateRecipe(ctx context.Context, recipe *db.Recipe, tagIDs []uint) error
	UpdateRecipe(ctx context.Context, id uint, updates db.RecipeUpdates) error
	GetRecipe(ctx context.Context, id uint) (*db.Recipe, error)
	RecipeExists(ctx context.Context, id uint) (bool, error)
	ListRecipes(ctx context.Context, filter db.RecipeFilter) ([]db.Recipe, int64, error)
	ListRecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]db.Recipe, error)
	CountRecipesByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
	DeleteRecipe(ctx context.Context, id uint) error

	// 收藏、购物车与订阅
	AddFavorite(ctx context.Context, userID, recipeID uint) error
	RemoveFavorite(ctx context.Context, userID, recipeID uint) error
	AddToCart(ctx context.Context, userID, recipeID uint) error
	RemoveFromCart(ctx context.Context, userID, recipeID uint) error
	Subscribe(ctx context.Context, userID, authorID uint) error
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	ListSubscriptions(ctx context.Context, userID uint, page common.PageParams) ([]db.User, int64, error)

	FavoritedRecipeIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
	CartRecipeIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
	SubscribedAuthorIDs(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error)

	// ListCartIngredientRows 以一次联表查询读取购物车内所有食谱的食材行
	ListCartIngredientRows(ctx context.Context, userID uint) ([]db.CartIngredientRow, error)
}
