package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// gormTodoRepository implements TodoRepository using GORM.
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository.
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

// Create adds a new todo; GORM fills in ID and timestamps.
func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return fmt.Errorf("create todo: %w", translateError(err))
	}
	return nil
}

func (r *gormTodoRepository) FindByID(ctx context.Context, id uint) (*domain.Todo, error) {
	var todo domain.Todo
	if err := r.db.WithContext(ctx).First(&todo, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &todo, nil
}

func (r *gormTodoRepository) LockByID(ctx context.Context, id uint) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: string(LockForUpdate)}).
		First(&todo, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &todo, nil
}

func (r *gormTodoRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Todo, error) {
	todos := []domain.Todo{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos of user %d: %w", userID, err)
	}
	return todos, nil
}

func (r *gormTodoRepository) FindByUserIDs(ctx context.Context, userIDs []uint) ([]domain.Todo, error) {
	todos := []domain.Todo{}
	if len(userIDs) == 0 {
		return todos, nil
	}
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Order("id").Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos of %d users: %w", len(userIDs), err)
	}
	return todos, nil
}

// Update writes only the two mutable columns. The owner column is never
// part of the UPDATE.
func (r *gormTodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	result := r.db.WithContext(ctx).
		Model(todo).
		Select("TaskText", "Done").
		Updates(todo)
	if result.Error != nil {
		return fmt.Errorf("update todo %d: %w", todo.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormTodoRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Todo{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete todo %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormTodoRepository) DeleteByUserID(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Todo{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete todos of user %d: %w", userID, result.Error)
	}
	return result.RowsAffected, nil
}
