package converter

import (
	"foodgram/internal/entity/db"
	"foodgram/internal/entity/dto"
)

// URLFunc maps a stored media key to its public URL.
type URLFunc func(key string) string

func (f URLFunc) apply(key string) string {
	if f == nil {
		return key
	}
	return f(key)
}

// UserToResponse converts a db.User to dto.UserResponse.
func UserToResponse(u *db.User, subscribed bool, urls URLFunc) dto.UserResponse {
	if u == nil {
		return dto.UserResponse{}
	}
	resp := dto.UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
	if u.Avatar != "" {
		avatar := urls.apply(u.Avatar)
		resp.Avatar = &avatar
	}
	return resp
}

// UsersToResponses converts users, looking up subscription flags by user id.
func UsersToResponses(users []db.User, subscribed map[uint]bool, urls URLFunc) []dto.UserResponse {
	out := make([]dto.UserResponse, len(users))
	for i := range users {
		out[i] = UserToResponse(&users[i], subscribed[users[i].ID], urls)
	}
	return out
}

// UserToCreateResponse 注册成功后的返回体
func UserToCreateResponse(u *db.User) dto.UserCreateResponse {
	return dto.UserCreateResponse{
		Email:     u.Email,
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
