package db

import "foodgram/internal/entity/common"

// RecipeFilter 食谱列表查询条件，零值字段表示不过滤
type RecipeFilter struct {
	AuthorID uint
	// TagSlugs matches recipes carrying any of the slugs.
	TagSlugs    []string
	FavoritedBy uint
	InCartOf    uint
	NotInCartOf uint
	Page        common.PageParams
}
