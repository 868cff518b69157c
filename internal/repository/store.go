package repository

import (
	"context"
	"errors"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

var (
	// ErrNotFound is returned when no row matches the lookup or the row
	// disappeared before a write.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a write violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// LockStrength selects the row lock taken by LockByID.
type LockStrength string

const (
	LockForShare  LockStrength = "SHARE"
	LockForUpdate LockStrength = "UPDATE"
)

// UserRepository defines the data operations on users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	// LockByID loads a user and locks its row until the surrounding
	// transaction ends. Outside a transaction it behaves like FindByID.
	LockByID(ctx context.Context, id uint, strength LockStrength) (*domain.User, error)
	// Update persists every mutable column of user. It fails with
	// ErrNotFound when the row no longer exists.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uint) error
}

// TodoRepository defines the data operations on todos.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindByID(ctx context.Context, id uint) (*domain.Todo, error)
	LockByID(ctx context.Context, id uint) (*domain.Todo, error)
	// FindByUserID returns the user's todos in creation order.
	FindByUserID(ctx context.Context, userID uint) ([]domain.Todo, error)
	// FindByUserIDs returns the todos of all given users in creation order.
	FindByUserIDs(ctx context.Context, userIDs []uint) ([]domain.Todo, error)
	// Update writes TaskText and Done only. It fails with ErrNotFound when
	// the row no longer exists.
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id uint) error
	DeleteByUserID(ctx context.Context, userID uint) (int64, error)
}

// Store groups the repositories that share one database and lets services
// run several operations atomically.
type Store interface {
	Users() UserRepository
	Todos() TodoRepository
	// Transaction runs fn with a Store bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
