package dto

// UserCreateRequest is the registration payload.
type UserCreateRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,username,max=150"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// UserCreateResponse is returned right after registration.
type UserCreateResponse struct {
	Email     string `json:"email"`
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserResponse is the read shape of a user as seen by the requester.
type UserResponse struct {
	Email        string  `json:"email"`
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

// UserListResponse is a page of users.
type UserListResponse struct {
	Count   int64          `json:"count"`
	Results []UserResponse `json:"results"`
}

// AvatarRequest carries a base64 or data URL encoded image.
type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

// AvatarResponse returns the public URL of the stored avatar.
type AvatarResponse struct {
	Avatar string `json:"avatar"`
}

// SubscriptionResponse is a followed author with a preview of their recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

// SubscriptionListResponse is a page of followed authors.
type SubscriptionListResponse struct {
	Count   int64                  `json:"count"`
	Results []SubscriptionResponse `json:"results"`
}
