package common

const (
	// DefaultPageLimit 食谱列表默认每页数量
	DefaultPageLimit = 6
	// DefaultSubscriptionLimit 订阅列表默认每页数量
	DefaultSubscriptionLimit = 10
	// MaxPageLimit 单页上限
	MaxPageLimit = 100
)

// PageParams 包含通用的 limit/offset 分页参数。
type PageParams struct {
	Limit  int `json:"limit" form:"limit"`
	Offset int `json:"offset" form:"offset"`
}

// Normalize 返回落在合法范围内的分页参数。
func (p PageParams) Normalize(defaultLimit int) PageParams {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageLimit
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Meta 包含分页元数据。
type Meta struct {
	Count  int64 `json:"count"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// NewMeta builds pagination metadata for a normalized page.
func NewMeta(count int64, page PageParams) Meta {
	return Meta{Count: count, Limit: page.Limit, Offset: page.Offset}
}
