package domain

import "time"

// User is a registered account. The todos a user owns are not held here;
// they reference the user through Todo.UserID.
type User struct {
	ID           uint    `gorm:"primaryKey"`
	Username     string  `gorm:"size:20;uniqueIndex;not null"`
	Email        string  `gorm:"uniqueIndex;not null"`
	PasswordHash string  `gorm:"column:password_hash;not null"`
	AvatarURL    *string `gorm:"column:avatar_url"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
