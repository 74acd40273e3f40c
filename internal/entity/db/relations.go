package db

import "time"

// Favorite marks a recipe as favorited by a user. At most one row per (user, recipe).
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_favorite_user_recipe,priority:1" json:"user_id"`
	RecipeID  uint      `gorm:"column:recipe_id;not null;index;uniqueIndex:idx_favorite_user_recipe,priority:2" json:"recipe_id"`
}

// TableName 指定表名
func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCartEntry puts a recipe into a user's cart. At most one row per (user, recipe).
type ShoppingCartEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_cart_user_recipe,priority:1" json:"user_id"`
	RecipeID  uint      `gorm:"column:recipe_id;not null;index;uniqueIndex:idx_cart_user_recipe,priority:2" json:"recipe_id"`
}

// TableName 指定表名
func (ShoppingCartEntry) TableName() string {
	return "shopping_cart_entries"
}

// Subscription links a follower (UserID) to an author. Self-subscription is rejected
// before insert.
type Subscription struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_subscription_user_author,priority:1" json:"user_id"`
	AuthorID  uint      `gorm:"column:author_id;not null;index;uniqueIndex:idx_subscription_user_author,priority:2" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"-"`
}

// TableName 指定表名
func (Subscription) TableName() string {
	return "subscriptions"
}
