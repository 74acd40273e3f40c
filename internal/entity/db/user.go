package db

import "time"

const (
	UserRoleAdmin = "admin"
	UserRoleUser  = "user"
)

// User 表示持久化的用户账户。
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"column:email;type:varchar(254);uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"column:username;type:varchar(150);uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"column:first_name;type:varchar(150);not null" json:"first_name"`
	LastName     string    `gorm:"column:last_name;type:varchar(150);not null" json:"last_name"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Avatar       string    `gorm:"column:avatar;type:varchar(255)" json:"avatar"`
	Role         string    `gorm:"column:role;type:varchar(50);index;not null" json:"role"`
}

// TableName 指定表名。
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user may manage reference data.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}
