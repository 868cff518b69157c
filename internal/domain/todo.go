package domain

import "time"

// Todo is a single task owned by exactly one user.
type Todo struct {
	ID        uint   `gorm:"primaryKey"`
	TaskText  string `gorm:"not null"`
	Done      bool   `gorm:"not null"`
	UserID    uint   `gorm:"not null;index"` // owner, never changes after creation
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether userID owns the todo.
func (t *Todo) OwnedBy(userID uint) bool {
	return t.UserID == userID
}
